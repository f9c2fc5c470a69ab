// Where: internal/usecase/dnssetup/dnssetup.go
// What: Custom domain registration workflow.
// Why: The service stack can only map its gateway onto a domain registered beforehand.
package dnssetup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/poruru-code/akm-cli/internal/domain/params"
	"github.com/poruru-code/akm-cli/internal/infra/fileops"
	"github.com/poruru-code/akm-cli/internal/infra/interaction"
	"github.com/poruru-code/akm-cli/internal/infra/stackgen"
	"github.com/poruru-code/akm-cli/internal/infra/ui"
	"github.com/poruru-code/akm-cli/internal/provisioner"
)

var errClientsNotConfigured = errors.New("aws clients are not configured")

type Request struct {
	DomainName string
	StackName  string
	OutputDir  string
	MaxWait    time.Duration
}

type Result struct {
	Zone         provisioner.HostedZone
	StackName    string
	StackID      string
	TemplatePath string
}

// Report builds the operator summary of a registration.
func (r Result) Report(domain string) ui.DNSReport {
	return ui.DNSReport{
		DomainName:   domain,
		HostedZoneID: r.Zone.ID,
		StackName:    r.StackName,
		StackID:      r.StackID,
		TemplatePath: r.TemplatePath,
	}
}

// Selector picks one of several equally good hosted zones.
type Selector interface {
	SelectValue(title string, options []interaction.SelectOption) (string, error)
}

// Workflow registers a custom domain through its own stack.
type Workflow struct {
	Clients       provisioner.Clients
	UserInterface ui.UserInterface
	Logger        *slog.Logger
	Selector      Selector
	WriteFile     func(path string, data []byte) error
	NewToken      func() string
}

func NewDNSWorkflow(clients provisioner.Clients, userInterface ui.UserInterface, logger *slog.Logger, selector Selector) Workflow {
	return Workflow{
		Clients:       clients,
		UserInterface: userInterface,
		Logger:        logger,
		Selector:      selector,
		WriteFile: func(path string, data []byte) error {
			return fileops.WriteFile(path, data, 0o644)
		},
		NewToken: uuid.NewString,
	}
}

// Run resolves the hosted zone, writes the template and creates the stack.
func (w Workflow) Run(ctx context.Context, req Request) (Result, error) {
	if w.Clients.HostedZones == nil || w.Clients.Stacks == nil {
		return Result{}, errClientsNotConfigured
	}
	domain := strings.TrimSuffix(strings.TrimSpace(req.DomainName), ".")
	if domain == "" {
		return Result{}, params.ErrMissingDomain
	}
	stackName := req.StackName
	if stackName == "" {
		stackName = params.DefaultDNSStackName
	}
	maxWait := req.MaxWait
	if maxWait <= 0 {
		maxWait = provisioner.DefaultMaxWait
	}
	log := w.logger().With("domain", domain, "stack", stackName)
	result := Result{StackName: stackName}

	w.step(1, "Resolving hosted zone")
	zones, err := w.Clients.HostedZones.ListHostedZones(ctx)
	if err != nil {
		return result, fmt.Errorf("list hosted zones: %w", err)
	}
	zone, err := w.selectZone(zones, domain)
	if err != nil {
		return result, err
	}
	result.Zone = zone
	log.Info("hosted zone resolved", "zone_id", zone.ID, "zone", zone.Name)
	w.info(fmt.Sprintf("Resolved hosted zone ID for %s as: %s", domain, zone.ID))

	w.step(2, "Writing stack template")
	tmpl, err := stackgen.BuildDNSTemplate(domain, zone.ID)
	if err != nil {
		return result, err
	}
	body, err := stackgen.Render(tmpl, true)
	if err != nil {
		return result, fmt.Errorf("render dns template: %w", err)
	}
	dir := req.OutputDir
	if dir == "" {
		dir = params.DefaultOutputDir
	}
	path := filepath.Join(dir, params.TemplateFileName(stackName))
	if err := w.WriteFile(path, body); err != nil {
		return result, fmt.Errorf("write template: %w", err)
	}
	result.TemplatePath = path
	w.info(fmt.Sprintf("Wrote stack template to %s", path))

	w.step(3, "Creating stack")
	input := provisioner.CreateStackInput{Name: stackName, TemplateBody: string(body)}
	if w.NewToken != nil {
		input.Token = w.NewToken()
	}
	id, err := w.Clients.Stacks.CreateStack(ctx, input)
	if err != nil {
		return result, fmt.Errorf("create stack %s: %w", stackName, err)
	}
	result.StackID = id
	log.Info("stack submitted", "stack_id", id)

	if err := w.Clients.Stacks.WaitCreateComplete(ctx, stackName, maxWait); err != nil {
		return result, err
	}
	if w.UserInterface != nil {
		w.UserInterface.Success("Stack creation complete")
	}
	return result, nil
}

func (w Workflow) selectZone(zones []provisioner.HostedZone, domain string) (provisioner.HostedZone, error) {
	zone, err := ResolveHostedZone(zones, domain)
	if err == nil || !errors.Is(err, ErrAmbiguousHostedZone) || w.Selector == nil {
		return zone, err
	}
	matches := MatchHostedZones(zones, domain)
	options := make([]interaction.SelectOption, 0, len(matches))
	for _, candidate := range matches {
		options = append(options, interaction.SelectOption{
			Label: fmt.Sprintf("%s (%s)", candidate.Name, candidate.ID),
			Value: candidate.ID,
		})
	}
	selected, err := w.Selector.SelectValue("Hosted zone for "+domain, options)
	if err != nil {
		return provisioner.HostedZone{}, err
	}
	for _, candidate := range matches {
		if candidate.ID == selected {
			return candidate, nil
		}
	}
	return provisioner.HostedZone{}, fmt.Errorf("%w: selected zone %q", ErrHostedZoneNotFound, selected)
}

func (w Workflow) step(index int, title string) {
	if w.UserInterface != nil {
		w.UserInterface.Step(index, 3, title)
	}
}

func (w Workflow) info(msg string) {
	if w.UserInterface != nil {
		w.UserInterface.Info(msg)
	}
}

func (w Workflow) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w.Logger
}
