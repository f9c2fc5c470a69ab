// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/poruru-code/akm-cli/internal/infra/interaction"
	"github.com/poruru-code/akm-cli/internal/infra/probe"
	"github.com/poruru-code/akm-cli/internal/infra/ui"
	"github.com/poruru-code/akm-cli/internal/provisioner"
	"github.com/poruru-code/akm-cli/internal/usecase/deploy"
	"github.com/poruru-code/akm-cli/internal/version"
)

// Dependencies holds the injected collaborators of every command. Nil fields get
// production defaults in Run.
type Dependencies struct {
	Out         io.Writer
	ErrOut      io.Writer
	Prompter    interaction.Prompter
	NewClients  provisioner.ClientFactory
	NewProber   func(header string, logger *slog.Logger) deploy.Prober
	NewResolver func() deploy.Resolver
	Random      io.Reader
	Getwd       func() (string, error)
	Getenv      func(string) string
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config   string `name:"config" help:"Path to config file (default: nearest .akm/config.yaml)"`
	EnvFile  string `name:"env-file" help:"Path to .env file"`
	LogJSON  bool   `name:"log-json" help:"Write diagnostic logs as JSON"`
	LogDebug bool   `name:"log-debug" help:"Enable debug diagnostic logs"`
	NoEmoji  bool   `name:"no-emoji" help:"Disable emoji output"`

	Deploy   DeployCmd   `cmd:"" help:"Deploy the API key manager stack and create the root key"`
	DNS      DNSCmd      `cmd:"" name:"dns" help:"Register a regional custom domain for the API"`
	Template TemplateCmd `cmd:"" help:"Render the service stack template without deploying"`
	Init     InitCmd     `cmd:"" help:"Write a project config file"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

type (
	// DeploymentFlags override config file values for a single run.
	DeploymentFlags struct {
		Region      string `help:"AWS region"`
		Bucket      string `name:"deployment-bucket" help:"S3 bucket for deployment artifacts"`
		TableName   string `name:"database-name" help:"DynamoDB table name"`
		StackName   string `name:"stack-name" help:"CloudFormation stack name"`
		GatewayName string `name:"api-gateway-name" help:"REST API name"`
		Stage       string `name:"deployment-stage" help:"Deployment stage (default: beta)"`
		DomainName  string `name:"domain-name" help:"Custom domain registered with 'dns'"`
		Package     string `name:"package" help:"Service package to upload"`
		Output      string `short:"o" name:"output" help:"Directory for generated templates"`
	}

	DeployCmd struct {
		DeploymentFlags   `embed:""`
		CapabilityFile    string        `name:"capability-file" help:"Root capability set (JSON or YAML)"`
		Yes               bool          `short:"y" help:"Do not ask for confirmation"`
		TeardownOnFailure bool          `name:"teardown-on-failure" help:"Delete the stack when creation fails"`
		SkipVerify        bool          `name:"skip-verify" help:"Skip post-deployment verification"`
		MaxWait           time.Duration `name:"max-wait" help:"Maximum time to wait for stack creation (default ${max_wait}, CloudFormation itself sets no limit)"`
	}

	DNSCmd struct {
		DomainName string        `name:"domain-name" required:"" help:"Custom domain to register"`
		Region     string        `help:"AWS region"`
		StackName  string        `name:"stack-name" help:"CloudFormation stack name (default: aws-api-dns-configuration)"`
		Output     string        `short:"o" name:"output" help:"Directory for the generated template"`
		MaxWait    time.Duration `name:"max-wait" help:"Maximum time to wait for stack creation (default ${max_wait}, CloudFormation itself sets no limit)"`
	}

	TemplateCmd struct {
		DeploymentFlags `embed:""`
		File            string `name:"file" help:"Template file path (default: <output>/<stack>-template.json)"`
		Compact         bool   `help:"Write compact JSON"`
	}

	InitCmd struct {
		Dir     string `name:"dir" help:"Project directory (default: current directory)"`
		Region  string `help:"AWS region"`
		Bucket  string `name:"deployment-bucket" help:"S3 bucket for deployment artifacts"`
		Domain  string `name:"domain-name" help:"Custom domain name"`
		Force   bool   `help:"Overwrite an existing config file"`
		NoInput bool   `name:"no-input" help:"Do not prompt for values"`
	}

	VersionCmd struct{}
)

// Run is the main entry point for CLI command execution. It returns the process exit code.
func Run(args []string, deps Dependencies) int {
	deps = withDefaults(deps)
	out := deps.Out

	if len(args) == 0 {
		return runNoArgs(out)
	}

	cli := CLI{}
	parser, err := newParser(&cli, out, deps.ErrOut)
	if err != nil {
		return exitWithError(out, err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, out)
	}

	console := ui.NewConsoleUI(out, resolveEmojiEnabled(out, cli.NoEmoji, deps.Getenv))
	loadEnvFile(cli.EnvFile, console)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := commandContext{
		cli:    cli,
		deps:   deps,
		out:    out,
		ui:     console,
		logger: setupLogger(deps.ErrOut, loggingOptions{JSON: cli.LogJSON, Debug: cli.LogDebug}),
	}

	handler, ok := handlers[kctx.Command()]
	if !ok {
		console.Warn("unknown command")
		return 1
	}
	if err := handler(ctx, c); err != nil {
		c.logger.Debug("command failed", "command", kctx.Command(), "error", err)
		return exitWithError(out, err)
	}
	return 0
}

func newParser(cli *CLI, out, errOut io.Writer, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name(cliName()),
		kong.Description("Deploys the API key manager service to AWS."),
		kong.Writers(out, errOut),
		kong.Vars{"max_wait": provisioner.DefaultMaxWait.String()},
	}, options...)
	return kong.New(cli, options...)
}

type commandHandler func(context.Context, commandContext) error

var handlers = map[string]commandHandler{
	"deploy":   runDeploy,
	"dns":      runDNS,
	"template": runTemplate,
	"init":     runInit,
	"version":  runVersion,
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.Prompter == nil {
		deps.Prompter = interaction.NewPrompter(os.Stdin, deps.ErrOut)
	}
	if deps.NewClients == nil {
		deps.NewClients = provisioner.NewClients
	}
	if deps.NewProber == nil {
		deps.NewProber = defaultProber
	}
	if deps.NewResolver == nil {
		deps.NewResolver = func() deploy.Resolver {
			return probe.NewDNSResolver("", probe.DefaultResolvConf)
		}
	}
	return deps
}

func defaultProber(header string, logger *slog.Logger) deploy.Prober {
	return probe.NewHTTPProbe(probe.HTTPOptions{
		Header:       header,
		RetryMax:     5,
		RetryWaitMin: 2 * time.Second,
		RetryWaitMax: 20 * time.Second,
		Timeout:      15 * time.Second,
		Logger:       logger,
	})
}

// loadEnvFile loads the given env file, or ./.env when present.
func loadEnvFile(path string, console ui.UserInterface) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			console.Warn(fmt.Sprintf("Warning: failed to load env file %s: %v", path, err))
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			console.Warn(fmt.Sprintf("Warning: failed to load .env: %v", err))
		}
	}
}

func runVersion(_ context.Context, c commandContext) error {
	c.ui.Info(version.GetVersion())
	return nil
}

// runNoArgs prints a short usage summary.
func runNoArgs(out io.Writer) int {
	console := ui.NewConsoleUI(out, false)
	cmd := cliName()
	console.Info("Usage:")
	console.Info(fmt.Sprintf("  %s dns --domain-name <domain> [flags]", cmd))
	console.Info(fmt.Sprintf("  %s deploy --region <region> --package <path> [flags]", cmd))
	console.Info("")
	console.Info(fmt.Sprintf("Try: %s --help", cmd))
	return 0
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, out io.Writer) int {
	msg := err.Error()
	if strings.Contains(msg, "expected string value") {
		console := ui.NewConsoleUI(out, false)
		cmd := cliName()
		switch {
		case strings.Contains(msg, "--domain-name"):
			console.Warn("`--domain-name` expects a value.")
			console.Info(fmt.Sprintf("Example: %s dns --domain-name keys.example.com", cmd))
			return 1
		case strings.Contains(msg, "--env-file"):
			console.Warn("`--env-file` expects a value. Provide a file path.")
			console.Info(fmt.Sprintf("Example: %s deploy --env-file .env.prod", cmd))
			return 1
		}
	}
	return exitWithError(out, err)
}
