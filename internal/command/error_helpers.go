// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Every command fails the same way: one line and exit code 1.
package command

import (
	"fmt"
	"io"

	"github.com/poruru-code/akm-cli/internal/infra/ui"
)

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	ui.NewConsoleUI(out, false).Info(fmt.Sprintf("✗ %v", err))
	return 1
}
