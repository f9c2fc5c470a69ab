// Where: cmd/akm/main.go
// What: CLI entrypoint.
// Why: Execute akm commands with configured dependencies.
package main

import (
	"os"

	"github.com/poruru-code/akm-cli/internal/command"
)

func main() {
	os.Exit(command.Run(os.Args[1:], buildDependencies()))
}
