// Package clipboard copies generated commands and snippets to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable reports that no clipboard utility is available on this system.
var ErrUnavailable = errors.New("system clipboard is unavailable")

// Copier copies textual data to a clipboard.
type Copier interface {
	Copy(text string) error
}

// SystemCopier writes to the system clipboard through github.com/atotto/clipboard.
type SystemCopier struct{}

// NewSystemCopier returns a SystemCopier.
func NewSystemCopier() SystemCopier {
	return SystemCopier{}
}

// Copy writes text to the system clipboard.
func (SystemCopier) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// Disabled ignores every copy. It stands in for the system clipboard when copying is turned off.
type Disabled struct{}

// Copy does nothing.
func (Disabled) Copy(string) error {
	return nil
}

var (
	_ Copier = SystemCopier{}
	_ Copier = Disabled{}
)
