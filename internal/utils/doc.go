// Package utils provides shared utility functions for secenv.
//
// # Filesystem Utilities
//
//   - FindManifest: walks up directories to find secenv.toml or secenv.yaml
//   - ExpandPath: expands a leading ~ in declared paths
//   - AbsPath: ExpandPath resolved against the working directory
//
// # Output
//
//   - IndentedList: one styled item per line, used by check -v
//   - Identity: user and host names recorded in the audit log
//
// # Terminal Utilities
//
// Passphrases are read from the controlling terminal rather than stdin,
// which is inherited by the launched command:
//   - ReadPassphraseFromTTY: prompts without echo on /dev/tty
//   - IsTTYAvailable: reports whether a controlling terminal exists
//   - IsTerminal: checks if a file is a terminal
package utils
