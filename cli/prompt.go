// Package cli provides the interactive prompts of the command line tool.
package cli

import (
	"errors"
	"os"

	"github.com/manifoldco/promptui"
)

// PromptConfirm asks a yes/no question on the terminal and reports the
// answer. Declining, whether by answering no or by aborting the prompt, is
// an answer rather than an error.
func PromptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}

		return false, err //nolint:wrapcheck
	}

	return true, nil
}
