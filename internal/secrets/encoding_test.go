package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
	"github.com/PolarWolf314/secenv/internal/manifest"
)

func TestDecodeValue(t *testing.T) {
	s := "x"
	b := "eA=="

	tests := []struct {
		name    string
		value   manifest.EncodedValue
		want    string
		wantErr error
	}{
		{"Literal", manifest.Literal("hello world"), "hello world", nil},
		{"Empty literal", manifest.Literal(""), "", nil},
		{"Base64", manifest.Base64("aGVsbG8="), "hello", nil},
		{"Wrapped base64", manifest.Base64("aGVs\n  bG8="), "hello", nil},
		{"Invalid base64", manifest.Base64("not base64!"), "", kerrors.ErrEncoding},
		{"Both set", manifest.EncodedValue{Literal: &s, Base64: &b}, "", kerrors.ErrConfiguration},
		{"Neither set", manifest.EncodedValue{}, "", kerrors.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValue(tt.value)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, kerrors.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
