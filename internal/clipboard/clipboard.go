// Package clipboard copies derived keys to the system clipboard and clears
// them again.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Copy places text on the clipboard.
func Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// ClearIfUnchanged empties the clipboard only if it still holds text, so a
// value copied by the user in the meantime survives.
func ClearIfUnchanged(text string) error {
	current, err := clipboard.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	if current != text {
		return nil
	}
	if err := clipboard.WriteAll(""); err != nil {
		return fmt.Errorf("failed to clear clipboard: %w", err)
	}
	return nil
}

// IsAvailable returns true if clipboard functionality is available
func IsAvailable() bool {
	if clipboard.Unsupported {
		return false
	}
	_, err := clipboard.ReadAll()
	return err == nil
}
