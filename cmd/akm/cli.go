// Where: cmd/akm/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"crypto/rand"
	"os"

	"github.com/poruru-code/akm-cli/internal/command"
	"github.com/poruru-code/akm-cli/internal/infra/interaction"
	"github.com/poruru-code/akm-cli/internal/provisioner"
)

var stdin = os.Stdin

// buildDependencies constructs the production dependencies of the CLI.
func buildDependencies() command.Dependencies {
	return command.Dependencies{
		Out:        os.Stdout,
		ErrOut:     os.Stderr,
		Prompter:   interaction.NewPrompter(stdin, os.Stderr),
		NewClients: provisioner.NewClients,
		Random:     rand.Reader,
		Getwd:      os.Getwd,
		Getenv:     os.Getenv,
	}
}
