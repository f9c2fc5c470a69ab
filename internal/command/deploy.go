// Where: internal/command/deploy.go
// What: Deploy command entry.
// Why: Resolve inputs, confirm the plan and hand over to the deployment workflow.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/poruru-code/akm-cli/internal/domain/capability"
	"github.com/poruru-code/akm-cli/internal/infra/config"
	"github.com/poruru-code/akm-cli/internal/infra/ui"
	"github.com/poruru-code/akm-cli/internal/usecase/deploy"
)

var errDeployCancelled = errors.New("deployment cancelled")

func runDeploy(ctx context.Context, c commandContext) error {
	flags := c.cli.Deploy
	d, s, configPath, err := c.resolveInputs(flags.DeploymentFlags)
	if err != nil {
		return err
	}
	if flags.CapabilityFile != "" {
		d.CapabilityFile = flags.CapabilityFile
	}

	seed := capability.Set{}
	if d.CapabilityFile != "" {
		seed, err = config.LoadCapabilitySet(d.CapabilityFile)
		if err != nil {
			return err
		}
	}

	clients, err := c.clients(ctx, d.Region)
	if err != nil {
		return err
	}
	if d.Region == "" {
		d.Region = clients.Region
	}

	staged := d.ForStage(s.ProductionStage)
	domain := staged.DomainName
	if domain == "" {
		domain = "(none)"
	}
	if configPath == "" {
		configPath = "(defaults)"
	}
	c.ui.Block("🧭", "Deploy plan", []ui.KeyValue{
		{Key: "Region", Value: staged.Region},
		{Key: "Stage", Value: staged.Stage},
		{Key: "Stack", Value: staged.StackName},
		{Key: "Table", Value: staged.TableName},
		{Key: "API", Value: staged.GatewayName},
		{Key: "Domain", Value: domain},
		{Key: "Bucket", Value: staged.Bucket},
		{Key: "Package", Value: staged.PackagePath},
		{Key: "Capabilities", Value: len(capability.WithRequired(seed, s.Capabilities))},
		{Key: "Config", Value: configPath},
	})

	if !flags.Yes {
		ok, err := c.deps.Prompter.Confirm(fmt.Sprintf("Deploy %s to %s?", staged.StackName, staged.Region))
		if err != nil {
			return err
		}
		if !ok {
			return errDeployCancelled
		}
	}

	workflow := deploy.NewDeployWorkflow(
		clients,
		c.ui,
		c.logger,
		c.deps.NewProber(s.APIKeyHeader, c.logger),
		c.deps.NewResolver(),
	)
	if c.deps.Random != nil {
		workflow.Random = c.deps.Random
	}
	result, err := workflow.Run(ctx, deploy.Request{
		Deployment:        d,
		Settings:          s,
		Capabilities:      seed,
		TeardownOnFailure: flags.TeardownOnFailure,
		SkipVerify:        flags.SkipVerify,
		MaxWait:           flags.MaxWait,
	})
	if err != nil {
		return err
	}
	return ui.RenderReport(c.out, result.Report())
}
