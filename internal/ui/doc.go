// Package ui formats text shown to the operator on stderr and in check
// output.
//
// Each Formatter names a kind of content rather than a color:
//
//	ui.Path.Sprint("/run/secrets/db.json")
//	ui.Variable.Sprint("DATABASE_URL")
//	ui.Highlight.Sprint("staging")
//	ui.Done("manifest is valid")
//
// When NO_COLOR is set or the terminal has no color support, Code,
// Highlight and Muted fall back to `backticks`, 'quotes' and (parentheses);
// the rest print plain text.
//
// Nothing in this package may receive a resolved value. Variable formats
// names only.
package ui
