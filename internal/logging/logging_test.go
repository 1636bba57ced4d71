package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

type replaceRedactor struct{ secret string }

func (r replaceRedactor) Redact(s string) string {
	return strings.ReplaceAll(s, r.secret, "[REDACTED]")
}

func TestLogger_Levels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name    string
		logger  Logger
		log     func(l Logger)
		visible bool
	}{
		{"Info hidden by default", Logger{}, func(l Logger) { l.Infof("hello") }, false},
		{"Info shown when verbose", Logger{Verbose: true}, func(l Logger) { l.Infof("hello") }, true},
		{"Info shown when debug", Logger{Debug: true}, func(l Logger) { l.Infof("hello") }, true},
		{"Debug hidden when verbose", Logger{Verbose: true}, func(l Logger) { l.Debugf("hello") }, false},
		{"Debug shown when debug", Logger{Debug: true}, func(l Logger) { l.Debugf("hello") }, true},
		{"Warn always shown", Logger{}, func(l Logger) { l.Warnf("hello") }, true},
		{"Error always shown", Logger{}, func(l Logger) { l.Errorf("hello") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := tt.logger
			l.Out = &buf
			tt.log(l)

			got := strings.Contains(buf.String(), "hello")
			if got != tt.visible {
				t.Errorf("Expected visible=%t, got output: %q", tt.visible, buf.String())
			}
		})
	}
}

func TestLogger_Redacts(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	l := Logger{Out: &buf, Redactor: replaceRedactor{secret: "hunter2"}}
	l.Errorf("backend said: password %s rejected", "hunter2")

	if strings.Contains(buf.String(), "hunter2") {
		t.Errorf("Expected secret to be redacted, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "[REDACTED]") {
		t.Errorf("Expected redaction marker, got: %s", buf.String())
	}
}
