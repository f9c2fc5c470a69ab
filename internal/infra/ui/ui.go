// Where: internal/infra/ui/ui.go
// What: Output surface used by workflows.
// Why: Keep workflows independent of terminal formatting and emoji settings.
package ui

import (
	"fmt"
	"io"
)

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes high-level output helpers used by workflows.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Step(index, total int, title string)
	Block(emoji, title string, rows []KeyValue)
}

// NewConsoleUI returns a UserInterface writing to out.
func NewConsoleUI(out io.Writer, emojiEnabled bool) UserInterface {
	if out == nil {
		out = io.Discard
	}
	return consoleUI{
		out:     out,
		console: NewWithEmoji(out, emojiEnabled),
	}
}

type consoleUI struct {
	out     io.Writer
	console *Console
}

func (c consoleUI) Info(msg string) {
	fmt.Fprintln(c.out, msg)
}

func (c consoleUI) Warn(msg string) {
	c.console.Warn(msg)
}

func (c consoleUI) Success(msg string) {
	c.console.Success(msg)
}

func (c consoleUI) Step(index, total int, title string) {
	c.console.Step(index, total, title)
}

func (c consoleUI) Block(emoji, title string, rows []KeyValue) {
	c.console.BlockStart(emoji, title)
	for _, kv := range rows {
		c.console.Item(kv.Key, kv.Value)
	}
	c.console.BlockEnd()
}
