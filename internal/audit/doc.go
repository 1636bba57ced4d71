// Package audit provides an optional audit trail of secenv runs.
//
// When enabled in the tool settings, every unlock, check and init appends
// one JSON object per line to:
//
//	$XDG_DATA_HOME/secenv/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC) and a per-run UUID
//   - User and host
//   - Operation, manifest path and profile
//   - Variable names and file paths, never their values
//   - Command name, exit code and the number of files cleanup could not remove
//
// # Usage
//
//	entry := audit.NewEntry(audit.OpUnlock)
//	entry.Profile = "default"
//	if err := log.Append(entry); err != nil {
//		logger.Warnf("audit: %v", err)
//	}
//
// # Failure Handling
//
// Audit logging is best-effort. Append returns its error so the caller can
// warn about it, but no operation fails because the audit log could not be
// written.
package audit
