package passphrase

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Source resolves a wallet passphrase from an environment variable or by
// prompting the operator, caching the value so repeated key operations in
// one invocation ask only once.
type Source struct {
	envVar string

	once  sync.Once
	value string
	err   error
}

// NewSource constructs a passphrase source that checks envVar before
// interactively prompting on the terminal.
func NewSource(envVar string) *Source {
	return &Source{envVar: strings.TrimSpace(envVar)}
}

// Get returns the cached passphrase, resolving it on the first call.
// Whitespace-only passphrases are rejected so a wallet is never written
// unprotected by accident.
func (s *Source) Get() (string, error) {
	s.once.Do(func() {
		if s.envVar != "" {
			if value, ok := os.LookupEnv(s.envVar); ok {
				if strings.TrimSpace(value) == "" {
					s.err = fmt.Errorf("%s is set but empty", s.envVar)
					return
				}
				s.value = value
				return
			}
		}

		if !term.IsTerminal(int(os.Stdin.Fd())) {
			if s.envVar != "" {
				s.err = fmt.Errorf("wallet passphrase required; set %s or run interactively", s.envVar)
			} else {
				s.err = errors.New("wallet passphrase required and no terminal available")
			}
			return
		}

		fmt.Fprint(os.Stderr, "Enter wallet passphrase: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			s.err = fmt.Errorf("failed to read passphrase: %w", err)
			return
		}
		if strings.TrimSpace(string(raw)) == "" {
			s.err = errors.New("wallet passphrase cannot be empty")
			return
		}
		s.value = string(raw)
	})

	return s.value, s.err
}
