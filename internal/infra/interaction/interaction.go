// Where: internal/infra/interaction/interaction.go
// What: Interactive primitives for CLI prompts and TTY detection.
// Why: Keep prompts out of the deployment and DNS workflows.
package interaction

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// SelectOption represents a single option in a selection menu.
type SelectOption struct {
	Label string // Display text
	Value string // Return value
}

// Prompter defines the interface for interactive user input and selection.
type Prompter interface {
	Input(title string, suggestions []string) (string, error)
	SelectValue(title string, options []SelectOption) (string, error)
	Confirm(title string) (bool, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// PromptYesNoWithIO prints a confirmation prompt to out and reads the answer from in.
func PromptYesNoWithIO(in io.Reader, out io.Writer, message string) (bool, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", message)
	line, err := readLine(in)
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	trimmed := strings.ToLower(line)
	return trimmed == "y" || trimmed == "yes", nil
}

func readLine(in io.Reader) (string, error) {
	if in == nil {
		in = os.Stdin
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
