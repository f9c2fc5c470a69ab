// Where: internal/domain/params/params.go
// What: Deployment parameters and the stage naming rule.
// Why: Keep per-run inputs explicit and derive stage-specific names exactly once.
package params

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrMissingRegion    = errors.New("region is required")
	ErrMissingBucket    = errors.New("deployment bucket is required")
	ErrMissingTable     = errors.New("database name is required")
	ErrMissingStack     = errors.New("stack name is required")
	ErrMissingGateway   = errors.New("api gateway name is required")
	ErrMissingStage     = errors.New("deployment stage is required")
	ErrMissingPackage   = errors.New("service package path is required")
	ErrMissingDomain    = errors.New("domain name is required")
	errInvalidStageName = errors.New("invalid deployment stage")
)

const (
	DefaultTableName      = "ApiKeyTable"
	DefaultBucket         = "com-zynaptic-aws-deployment"
	DefaultPackage        = "aws-api-key-manager-1.0.0.jar"
	DefaultStackName      = "aws-api-key-manager"
	DefaultDNSStackName   = "aws-api-dns-configuration"
	DefaultGatewayName    = "ApiKeyManager"
	DefaultStage          = "beta"
	DefaultOutputDir      = "."
	templateObjectPostfix = "-template.json"
)

// Deployment holds the inputs of one deployment run.
type Deployment struct {
	Region         string
	Bucket         string
	TableName      string
	StackName      string
	GatewayName    string
	Stage          string
	DomainName     string
	CapabilityFile string
	PackagePath    string
	OutputDir      string
}

func DefaultDeployment() Deployment {
	return Deployment{
		Bucket:      DefaultBucket,
		TableName:   DefaultTableName,
		StackName:   DefaultStackName,
		GatewayName: DefaultGatewayName,
		Stage:       DefaultStage,
		PackagePath: DefaultPackage,
		OutputDir:   DefaultOutputDir,
	}
}

// ForStage applies the stage naming rule. Non-production stages get a "-{stage}"
// suffix on stack, table and gateway names and a "{stage}." prefix on the domain.
func (d Deployment) ForStage(productionStage string) Deployment {
	if d.Stage == productionStage {
		return d
	}
	suffix := "-" + d.Stage
	d.StackName += suffix
	d.TableName += suffix
	d.GatewayName += suffix
	if d.DomainName != "" {
		d.DomainName = d.Stage + "." + d.DomainName
	}
	return d
}

// Validate checks required fields. The package path is only checked when requirePackage is set.
func (d Deployment) Validate(requirePackage bool) error {
	required := []struct {
		value string
		err   error
	}{
		{d.Region, ErrMissingRegion},
		{d.Bucket, ErrMissingBucket},
		{d.TableName, ErrMissingTable},
		{d.StackName, ErrMissingStack},
		{d.GatewayName, ErrMissingGateway},
		{d.Stage, ErrMissingStage},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return field.err
		}
	}
	if strings.ContainsAny(d.Stage, "/. ") {
		return fmt.Errorf("%w: %q", errInvalidStageName, d.Stage)
	}
	if requirePackage && strings.TrimSpace(d.PackagePath) == "" {
		return ErrMissingPackage
	}
	return nil
}

// HasDomain reports whether a custom domain is configured.
func (d Deployment) HasDomain() bool {
	return strings.TrimSpace(d.DomainName) != ""
}

// PackageKey is the object key of the service package.
func (d Deployment) PackageKey() string {
	return filepath.Base(d.PackagePath)
}

// TemplateKey is the object key and local file name of the generated template.
func (d Deployment) TemplateKey() string {
	return TemplateFileName(d.StackName)
}

// TemplateURL is the virtual-hosted S3 URL the stack is created from.
func (d Deployment) TemplateURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", d.Bucket, d.Region, d.TemplateKey())
}

// TemplatePath is where the generated template is written locally.
func (d Deployment) TemplatePath() string {
	dir := d.OutputDir
	if dir == "" {
		dir = DefaultOutputDir
	}
	return filepath.Join(dir, d.TemplateKey())
}

func TemplateFileName(stackName string) string {
	return stackName + templateObjectPostfix
}
