package secrets

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
	"github.com/PolarWolf314/secenv/internal/manifest"
)

// DecodeValue returns the bytes an EncodedValue stands for. Literal text is
// used as-is; base64 may be wrapped across lines.
func DecodeValue(v manifest.EncodedValue) ([]byte, error) {
	switch {
	case v.Literal != nil && v.Base64 != nil:
		return nil, fmt.Errorf("%w: both literal and base64 are set", kerrors.ErrConfiguration)
	case v.Literal != nil:
		return []byte(*v.Literal), nil
	case v.Base64 != nil:
		compact := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, *v.Base64)
		out, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrConfiguration, kerrors.ErrEncoding, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: neither literal nor base64 is set", kerrors.ErrConfiguration)
	}
}
