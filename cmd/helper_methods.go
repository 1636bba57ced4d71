package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/PolarWolf314/secenv/internal/secrets"
	"github.com/PolarWolf314/secenv/internal/ui"
	"github.com/PolarWolf314/secenv/internal/utils"
	"github.com/briandowns/spinner"
)

// startSpinner starts a spinner on stderr unless output is verbose or
// stderr is not a terminal. Stdout is left alone because it may carry
// NAME=VALUE lines or the child's output.
//
// spinner.FinalMSG values do not need trailing newlines; the returned
// cleanup adds one and prints the message to stderr.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	active := !verbose && !debug && utils.IsTerminal(os.Stderr)
	if active {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	stopped := false
	cleanup := func() {
		if stopped {
			return
		}
		stopped = true

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if active {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(os.Stderr, finalMsg)
		}
	}

	return s, cleanup
}

// passphraseProvider builds the chain configured in the settings: the
// passphrase environment variable first, then a prompt on the terminal.
// The spinner is paused while prompting.
func passphraseProvider(s *spinner.Spinner) (secrets.PassphraseProvider, func()) {
	var chain secrets.PassphraseChain
	forget := func() {}

	if Settings.Passphrase.Env != "" {
		chain = append(chain, secrets.EnvPassphrase{Name: Settings.Passphrase.Env})
	}

	if Settings.Passphrase.Prompt && utils.IsTTYAvailable() {
		prompt := &secrets.PromptPassphrase{
			Prompt: utils.ReadPassphraseFromTTY,
		}
		if s != nil {
			// Prompts are serialized, so one flag is enough.
			paused := false
			prompt.Before = func() {
				paused = s.Active()
				if paused {
					s.Stop()
				}
			}
			prompt.After = func() {
				if paused {
					s.Start()
				}
			}
		}
		chain = append(chain, prompt)
		forget = prompt.Forget
	}

	if len(chain) == 0 {
		return nil, forget
	}
	return chain, forget
}
