// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Resolve emoji support once per invocation.
package command

import (
	"io"
	"os"
	"strings"

	"github.com/poruru-code/akm-cli/internal/infra/interaction"
)

func resolveEmojiEnabled(out io.Writer, noEmoji bool, getenv func(string) string) bool {
	if noEmoji {
		return false
	}
	if strings.TrimSpace(getenv("NO_EMOJI")) != "" {
		return false
	}
	if strings.ToLower(strings.TrimSpace(getenv("TERM"))) == "dumb" {
		return false
	}
	if file, ok := out.(*os.File); ok {
		return interaction.IsTerminal(file)
	}
	return false
}
