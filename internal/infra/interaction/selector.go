// Where: internal/infra/interaction/selector.go
// What: Interactive prompt helpers using the huh library.
// Why: Provide keyboard-based input for init, hosted zone selection and teardown confirmation.
package interaction

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
)

var runInputPrompt = func(title string, suggestions []string, input *string) error {
	field := huh.NewInput().
		Title(title).
		Suggestions(suggestions).
		Value(input)
	if len(suggestions) > 0 {
		field.Placeholder(suggestions[0])
	}
	return field.Run()
}

var runSelectPrompt = func(title string, options []huh.Option[string], selected *string) error {
	return huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(selected).
		Run()
}

var runConfirmPrompt = func(title string, confirmed *bool) error {
	return huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(confirmed).
		Run()
}

// HuhPrompter implements the Prompter interface using the huh TUI library.
type HuhPrompter struct{}

func (p HuhPrompter) Input(title string, suggestions []string) (string, error) {
	var input string
	err := runInputPrompt(title, suggestions, &input)
	if err != nil {
		return "", fmt.Errorf("prompt input: %w", err)
	}
	return input, nil
}

func (p HuhPrompter) SelectValue(title string, options []SelectOption) (string, error) {
	if len(options) == 0 {
		return "", nil
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Label, opt.Value)
	}

	var selected string
	err := runSelectPrompt(title, huhOptions, &selected)
	if err != nil {
		return "", fmt.Errorf("prompt select value: %w", err)
	}
	return selected, nil
}

func (p HuhPrompter) Confirm(title string) (bool, error) {
	var confirmed bool
	if err := runConfirmPrompt(title, &confirmed); err != nil {
		return false, fmt.Errorf("prompt confirm: %w", err)
	}
	return confirmed, nil
}

// LinePrompter answers prompts from plain line input, for pipes and CI.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p LinePrompter) Input(title string, suggestions []string) (string, error) {
	def := ""
	if len(suggestions) > 0 {
		def = suggestions[0]
		_, _ = fmt.Fprintf(p.Out, "%s [%s]: ", title, def)
	} else {
		_, _ = fmt.Fprintf(p.Out, "%s: ", title)
	}
	line, err := readLine(p.In)
	if err != nil {
		return "", fmt.Errorf("prompt input: %w", err)
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (p LinePrompter) SelectValue(title string, options []SelectOption) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	_, _ = fmt.Fprintln(p.Out, title)
	for i, opt := range options {
		_, _ = fmt.Fprintf(p.Out, "  %d) %s\n", i+1, opt.Label)
	}
	_, _ = fmt.Fprint(p.Out, "Choice [1]: ")
	line, err := readLine(p.In)
	if err != nil {
		return "", fmt.Errorf("prompt select value: %w", err)
	}
	if line == "" {
		return options[0].Value, nil
	}
	index, err := strconv.Atoi(line)
	if err != nil || index < 1 || index > len(options) {
		return "", fmt.Errorf("prompt select value: invalid choice %q", line)
	}
	return options[index-1].Value, nil
}

func (p LinePrompter) Confirm(title string) (bool, error) {
	return PromptYesNoWithIO(p.In, p.Out, title)
}

// NewPrompter picks the TUI prompter for terminals and line input otherwise.
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if IsTerminal(in) {
		return HuhPrompter{}
	}
	return LinePrompter{In: in, Out: out}
}
