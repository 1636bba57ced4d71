package utils

import (
	"os"
	"os/user"
)

const unknownIdentity = "unknown"

// Identity names who ran secenv and where, for the audit log. Lookups
// that fail fall back to $USER (or %USERNAME%) and then to "unknown", so
// it never fails.
func Identity() (username, hostname string) {
	username = unknownIdentity
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	} else if name := firstEnv("USER", "USERNAME"); name != "" {
		username = name
	}

	hostname = unknownIdentity
	if h, err := os.Hostname(); err == nil && h != "" {
		hostname = h
	}
	return username, hostname
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}
