// Where: internal/command/init.go
// What: Init command entry.
// Why: Start a project with a config file holding every default, ready to edit.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/poruru-code/akm-cli/internal/infra/config"
	"github.com/poruru-code/akm-cli/internal/infra/fileops"
)

var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

func runInit(_ context.Context, c commandContext) error {
	flags := c.cli.Init
	dir := flags.Dir
	if dir == "" {
		wd, err := c.deps.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}
	path, err := config.ProjectConfigPath(dir)
	if err != nil {
		return err
	}

	if fileops.FileExists(path) && !flags.Force {
		if flags.NoInput {
			return fmt.Errorf("%w: %s", errConfigExists, path)
		}
		ok, err := c.deps.Prompter.Confirm(fmt.Sprintf("Overwrite %s?", path))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", errConfigExists, path)
		}
	}

	cfg := config.DefaultFile()
	cfg.Deployment.Region = flags.Region
	if cfg.Deployment.Region == "" {
		cfg.Deployment.Region = c.envRegion()
	}
	if flags.Bucket != "" {
		cfg.Deployment.Bucket = flags.Bucket
	}
	cfg.Deployment.DomainName = flags.Domain

	if !flags.NoInput {
		prompts := []struct {
			title string
			dst   *string
		}{
			{"AWS region", &cfg.Deployment.Region},
			{"Deployment bucket", &cfg.Deployment.Bucket},
			{"Custom domain (optional)", &cfg.Deployment.DomainName},
		}
		for _, p := range prompts {
			var suggestions []string
			if *p.dst != "" {
				suggestions = []string{*p.dst}
			}
			value, err := c.deps.Prompter.Input(p.title, suggestions)
			if err != nil {
				return err
			}
			if value = strings.TrimSpace(value); value != "" {
				*p.dst = value
			}
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	c.ui.Success(fmt.Sprintf("Wrote %s", path))
	return nil
}
