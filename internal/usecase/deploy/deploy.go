// Where: internal/usecase/deploy/deploy.go
// What: Deployment workflow types and construction.
// Why: Keep the deployment state machine free of CLI concerns.
package deploy

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/poruru-code/akm-cli/internal/domain/capability"
	"github.com/poruru-code/akm-cli/internal/domain/params"
	"github.com/poruru-code/akm-cli/internal/infra/fileops"
	"github.com/poruru-code/akm-cli/internal/infra/probe"
	"github.com/poruru-code/akm-cli/internal/infra/ui"
	"github.com/poruru-code/akm-cli/internal/provisioner"
)

var (
	ErrTableExists         = errors.New("key table already exists")
	ErrDomainNotRegistered = errors.New("custom domain is not registered with api gateway")
	ErrDomainNotRegional   = errors.New("custom domain has no regional endpoint")

	errClientsNotConfigured = errors.New("aws clients are not configured")
)

// Phase is a state of the deployment state machine.
type Phase string

const (
	PhaseStart               Phase = "start"
	PhasePreconditionChecked Phase = "precondition-checked"
	PhaseArtifactUploaded    Phase = "artifact-uploaded"
	PhaseTemplateSubmitted   Phase = "template-submitted"
	PhaseStackReady          Phase = "stack-ready"
	PhaseRecordWritten       Phase = "record-written"
	PhaseVerified            Phase = "verified"
)

// PhaseError reports the last phase a failed run reached.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("deployment stopped after %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Request captures the inputs of one deployment run. Deployment holds the
// unsuffixed names; the stage naming rule is applied by Run.
type Request struct {
	Deployment        params.Deployment
	Settings          params.Settings
	Capabilities      capability.Set
	TeardownOnFailure bool
	SkipVerify        bool
	MaxWait           time.Duration
}

// Upload is one object written to the deployment bucket.
type Upload struct {
	Key  string
	ETag string
}

// Result describes what a run produced, including partial progress on failure.
type Result struct {
	Phase            Phase
	Deployment       params.Deployment
	Identity         provisioner.Identity
	BucketCreated    bool
	TemplatePath     string
	Uploads          []Upload
	StackID          string
	TornDown         bool
	Record           capability.Record
	ConsumedCapacity float64
	Endpoints        []ui.Endpoint
	Probes           []ui.Probe
	Warnings         []string
}

// Prober requests a deployed URL with an API key.
type Prober interface {
	Get(ctx context.Context, url, key string) (probe.Response, error)
}

// Resolver looks up the addresses of a domain name.
type Resolver interface {
	Resolve(ctx context.Context, domain string) ([]string, error)
}

// Workflow executes the deployment orchestration steps.
type Workflow struct {
	Clients       provisioner.Clients
	UserInterface ui.UserInterface
	Logger        *slog.Logger
	Prober        Prober
	Resolver      Resolver
	Random        io.Reader
	OpenFile      func(path string) (io.ReadCloser, error)
	WriteFile     func(path string, data []byte) error
	NewToken      func() string
}

// NewDeployWorkflow constructs a Workflow with system randomness and file access.
func NewDeployWorkflow(
	clients provisioner.Clients,
	userInterface ui.UserInterface,
	logger *slog.Logger,
	prober Prober,
	resolver Resolver,
) Workflow {
	return Workflow{
		Clients:       clients,
		UserInterface: userInterface,
		Logger:        logger,
		Prober:        prober,
		Resolver:      resolver,
		Random:        rand.Reader,
		OpenFile:      openFile,
		WriteFile:     writeFile,
		NewToken:      uuid.NewString,
	}
}

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func writeFile(path string, data []byte) error {
	return fileops.WriteFile(path, data, 0o644)
}

func (w Workflow) checkConfigured() error {
	c := w.Clients
	if c.DynamoDB == nil || c.S3 == nil || c.Stacks == nil {
		return errClientsNotConfigured
	}
	return nil
}

func (w Workflow) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w.Logger
}

func (w Workflow) random() io.Reader {
	if w.Random == nil {
		return rand.Reader
	}
	return w.Random
}
