// Where: internal/command/command_context.go
// What: Per-invocation state shared by command handlers.
// Why: Resolve config, clients and output once instead of in every handler.
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/poruru-code/akm-cli/internal/domain/params"
	"github.com/poruru-code/akm-cli/internal/infra/config"
	"github.com/poruru-code/akm-cli/internal/infra/ui"
	"github.com/poruru-code/akm-cli/internal/meta"
	"github.com/poruru-code/akm-cli/internal/provisioner"
)

type commandContext struct {
	cli    CLI
	deps   Dependencies
	out    io.Writer
	ui     ui.UserInterface
	logger *slog.Logger
}

// loadConfig reads --config, else the nearest project config. A missing project
// config is not an error; a missing explicit one is.
func (c commandContext) loadConfig() (config.File, string, error) {
	path := strings.TrimSpace(c.cli.Config)
	if path == "" {
		wd, err := c.deps.Getwd()
		if err != nil {
			return config.File{}, "", fmt.Errorf("resolve working directory: %w", err)
		}
		found, ok := config.FindProjectConfig(wd)
		if !ok {
			return config.File{}, "", nil
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.File{}, "", err
	}
	c.logger.Debug("config loaded", "path", path)
	return cfg, path, nil
}

// resolveInputs layers defaults, the config file and flags, in that order.
func (c commandContext) resolveInputs(flags DeploymentFlags) (params.Deployment, params.Settings, string, error) {
	cfg, path, err := c.loadConfig()
	if err != nil {
		return params.Deployment{}, params.Settings{}, "", err
	}
	d := flags.apply(cfg.ApplyDeployment(params.DefaultDeployment()))
	if d.Region == "" {
		d.Region = c.envRegion()
	}
	return d, cfg.ApplySettings(params.DefaultSettings()), path, nil
}

func (c commandContext) envRegion() string {
	for _, key := range []string{"AWS_REGION", "AWS_DEFAULT_REGION"} {
		if value := strings.TrimSpace(c.deps.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// clients builds the AWS adapters. The SDK resolves the region from shared config
// when none was given.
func (c commandContext) clients(ctx context.Context, region string) (provisioner.Clients, error) {
	clients, err := c.deps.NewClients(ctx, provisioner.Options{
		Region:          region,
		EndpointURL:     c.deps.Getenv(meta.EnvEndpointURL),
		AccessKeyID:     c.deps.Getenv(meta.EnvAccessKeyID),
		SecretAccessKey: c.deps.Getenv(meta.EnvSecretAccessKey),
	})
	if err != nil {
		return provisioner.Clients{}, fmt.Errorf("configure aws clients: %w", err)
	}
	return clients, nil
}

func (f DeploymentFlags) apply(d params.Deployment) params.Deployment {
	set := func(dst *string, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*dst = value
		}
	}
	set(&d.Region, f.Region)
	set(&d.Bucket, f.Bucket)
	set(&d.TableName, f.TableName)
	set(&d.StackName, f.StackName)
	set(&d.GatewayName, f.GatewayName)
	set(&d.Stage, f.Stage)
	set(&d.DomainName, f.DomainName)
	set(&d.PackagePath, f.Package)
	set(&d.OutputDir, f.Output)
	return d
}
