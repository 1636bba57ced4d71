package utils

import (
	"strings"

	"github.com/PolarWolf314/secenv/internal/ui"
)

// IndentedList renders one item per line, each prefixed with indent and
// formatted with style. An empty list renders as nothing.
func IndentedList(indent string, items []string, style ui.Formatter) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(indent)
		b.WriteString(style.Sprint(item))
		b.WriteByte('\n')
	}
	return b.String()
}
