// Where: internal/command/dns.go
// What: DNS command entry.
// Why: Register the custom domain before a deploy maps the API onto it.
package command

import (
	"context"

	"github.com/poruru-code/akm-cli/internal/infra/ui"
	"github.com/poruru-code/akm-cli/internal/usecase/dnssetup"
)

func runDNS(ctx context.Context, c commandContext) error {
	flags := c.cli.DNS
	cfg, _, err := c.loadConfig()
	if err != nil {
		return err
	}
	region := flags.Region
	if region == "" {
		region = cfg.Deployment.Region
	}
	if region == "" {
		region = c.envRegion()
	}
	stackName := flags.StackName
	if stackName == "" {
		stackName = cfg.DNSStackName()
	}
	outputDir := flags.Output
	if outputDir == "" {
		outputDir = cfg.Deployment.OutputDir
	}

	clients, err := c.clients(ctx, region)
	if err != nil {
		return err
	}
	workflow := dnssetup.NewDNSWorkflow(clients, c.ui, c.logger, c.deps.Prompter)
	result, err := workflow.Run(ctx, dnssetup.Request{
		DomainName: flags.DomainName,
		StackName:  stackName,
		OutputDir:  outputDir,
		MaxWait:    flags.MaxWait,
	})
	if err != nil {
		return err
	}
	return ui.RenderDNSReport(c.out, result.Report(flags.DomainName))
}
