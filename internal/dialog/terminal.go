package dialog

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// Terminal implements Dialog with huh forms on the controlling terminal.
type Terminal struct{}

// NewTerminal returns the interactive terminal dialog.
func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Menu(title, prompt string, options []Option) (string, error) {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Key))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description(prompt).
				Options(opts...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return "", mapAborted(err)
	}
	return selected, nil
}

func (t *Terminal) Input(title, prompt, def string) (string, error) {
	value := def
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(prompt).
				Value(&value),
		),
	)

	if err := form.Run(); err != nil {
		return "", mapAborted(err)
	}
	return value, nil
}

func (t *Terminal) Password(title, prompt string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(prompt).
				EchoMode(huh.EchoModePassword).
				Value(&value),
		),
	)

	if err := form.Run(); err != nil {
		return "", mapAborted(err)
	}
	return value, nil
}

func (t *Terminal) Message(title, text string) error {
	confirmed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(text).
				Affirmative("OK").
				Negative("").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return mapAborted(err)
	}
	return nil
}

func (t *Terminal) YesNo(title, text string) (bool, error) {
	var answer bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(text).
				Value(&answer),
		),
	)

	if err := form.Run(); err != nil {
		return false, mapAborted(err)
	}
	return answer, nil
}

func mapAborted(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
