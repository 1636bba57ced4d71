package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Operations recorded in the audit log.
const (
	OpUnlock = "unlock"
	OpCheck  = "check"
	OpInit   = "init"
)

// Entry represents a single audit log entry. It carries names only.
type Entry struct {
	Timestamp string `json:"ts"`     // RFC3339 with microseconds.
	RunID     string `json:"run_id"` // Unique per invocation.
	User      string `json:"user"`
	Host      string `json:"host,omitempty"`
	Operation string `json:"op"`

	Manifest string   `json:"manifest,omitempty"`
	Profile  string   `json:"profile,omitempty"`
	Vars     []string `json:"vars,omitempty"`
	Files    []string `json:"files,omitempty"`

	// Command is the program name only; arguments may carry secrets.
	Command         string `json:"command,omitempty"`
	ExitCode        int    `json:"exit_code"`
	CleanupFailures int    `json:"cleanup_failures,omitempty"`
	Error           string `json:"error,omitempty"`
}

// NewEntry returns an entry for op stamped with a fresh run id.
func NewEntry(op string) Entry {
	return Entry{
		RunID:     uuid.NewString(),
		Operation: op,
	}
}

// Log appends entries to a JSON Lines file. A nil or disabled Log
// discards everything.
type Log struct {
	Path    string
	Enabled bool
}

// Append writes entry to the log, creating the file and its directory if
// needed. Callers treat a returned error as a warning; it must never fail
// the operation being audited.
func (l *Log) Append(entry Entry) error {
	if l == nil || !l.Enabled || l.Path == "" {
		return nil
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.RunID == "" {
		entry.RunID = uuid.NewString()
	}

	if err := os.MkdirAll(filepath.Dir(l.Path), 0700); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// ReadEntries reads all entries from the audit log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Partial writes leave truncated lines behind.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
