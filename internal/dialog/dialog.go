// Package dialog is the wizard's terminal interface. The wizard only
// depends on the Dialog interface; the huh-backed implementation lives
// alongside it.
package dialog

import "errors"

// ErrCancelled is returned from every prompt when the operator aborts
// instead of answering. It is distinct from an empty answer.
var ErrCancelled = errors.New("cancelled by operator")

// Option is one selectable menu entry.
type Option struct {
	Key   string
	Label string
}

// Dialog presents prompts and menus and blocks until the operator
// responds or cancels.
type Dialog interface {
	// Menu presents options for single selection and returns the
	// selected option's key.
	Menu(title, prompt string, options []Option) (string, error)

	// Input prompts for a line of text, prefilled with def.
	Input(title, prompt, def string) (string, error)

	// Password prompts for a line of text without echoing it.
	Password(title, prompt string) (string, error)

	// Message shows text and waits for acknowledgement.
	Message(title, text string) error

	// YesNo asks a yes/no question.
	YesNo(title, text string) (bool, error)
}
