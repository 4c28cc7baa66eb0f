package cli

import (
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"
)

// promptSecret is swapped out in tests.
var promptSecret = PromptPassword

// PromptPassword writes prompt to w and reads a secret from the terminal
// without echoing it.
func PromptPassword(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)

	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--prompt requires an interactive terminal")
	}

	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(w) // Print newline after secret input

	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return string(secret), nil
}
