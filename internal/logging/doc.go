// Package logger provides leveled logging for secenv commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with colored semantic prefixes and always goes
// to stderr, because stdout carries NAME=VALUE lines that callers evaluate.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()  // Shown with --verbose or --debug
//	Logger.Debugf() // Shown only with --debug
//	Logger.Warnf()  // Always shown
//	Logger.Errorf() // Always shown
//
// # Redaction
//
// Once secret values are resolved, commands attach a Redactor. Every line is
// passed through it before printing, so a resolved value never reaches the
// terminal even if it ends up inside an error message.
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Redactor = tracked
//	log.Infof("Resolved %d variables", count)
package logger
