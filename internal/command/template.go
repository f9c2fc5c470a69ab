// Where: internal/command/template.go
// What: Template command entry.
// Why: Let operators review the generated stack before deploying it.
package command

import (
	"context"
	"fmt"

	"github.com/poruru-code/akm-cli/internal/infra/fileops"
	"github.com/poruru-code/akm-cli/internal/infra/stackgen"
)

func runTemplate(_ context.Context, c commandContext) error {
	flags := c.cli.Template
	d, s, _, err := c.resolveInputs(flags.DeploymentFlags)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	staged := d.ForStage(s.ProductionStage)

	tmpl, err := stackgen.BuildServiceTemplate(staged, s)
	if err != nil {
		return err
	}
	body, err := stackgen.Render(tmpl, !flags.Compact)
	if err != nil {
		return err
	}

	path := flags.File
	if path == "" {
		path = staged.TemplatePath()
	}
	if err := fileops.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	c.ui.Success(fmt.Sprintf("Wrote %d resources to %s", tmpl.Len(), path))
	return nil
}
