package utils

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

// controllingTerminal is the device passphrase prompts talk to. Stdin and
// stdout belong to the launched command and are never used for prompts.
func controllingTerminal() string {
	if runtime.GOOS == "windows" {
		return "CON"
	}
	return "/dev/tty"
}

func openTerminal() (*os.File, error) {
	path := controllingTerminal()
	tty, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	if !term.IsTerminal(int(tty.Fd())) {
		tty.Close()
		return nil, fmt.Errorf("%s is not a terminal", path)
	}
	return tty, nil
}

// ReadPassphraseFromTTY prints prompt on the controlling terminal and reads
// a line with echo disabled. The caller owns the returned slice and should
// zero it.
func ReadPassphraseFromTTY(prompt string) ([]byte, error) {
	tty, err := openTerminal()
	if err != nil {
		return nil, fmt.Errorf("passphrase prompt: %w", err)
	}
	defer tty.Close()

	fmt.Fprint(tty, prompt)
	passphrase, err := term.ReadPassword(int(tty.Fd()))
	// Echo is off, so the user's Enter never reached the screen.
	fmt.Fprintln(tty)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase from %s: %w", tty.Name(), err)
	}
	return passphrase, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsTTYAvailable reports whether a passphrase prompt could be shown.
func IsTTYAvailable() bool {
	tty, err := openTerminal()
	if err != nil {
		return false
	}
	tty.Close()
	return true
}
