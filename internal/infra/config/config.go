// Where: internal/infra/config/config.go
// What: Project config file load/save.
// Why: Let operators keep deployment inputs in <project>/.akm/config.yaml instead of long flag lists.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/poruru-code/akm-cli/internal/domain/params"
	"github.com/poruru-code/akm-cli/internal/infra/fileops"
	"github.com/poruru-code/akm-cli/internal/meta"
)

// File is the on-disk configuration. Unset fields keep built-in defaults.
type File struct {
	Version    int               `yaml:"version"`
	Deployment DeploymentSection `yaml:"deployment,omitempty"`
	Settings   SettingsSection   `yaml:"settings,omitempty"`
	DNS        DNSSection        `yaml:"dns,omitempty"`
}

type DeploymentSection struct {
	Region         string `yaml:"region,omitempty"`
	Bucket         string `yaml:"deployment_bucket,omitempty"`
	TableName      string `yaml:"database_name,omitempty"`
	StackName      string `yaml:"stack_name,omitempty"`
	GatewayName    string `yaml:"api_gateway_name,omitempty"`
	Stage          string `yaml:"deployment_stage,omitempty"`
	DomainName     string `yaml:"domain_name,omitempty"`
	CapabilityFile string `yaml:"capability_file,omitempty"`
	Package        string `yaml:"package,omitempty"`
	OutputDir      string `yaml:"output_dir,omitempty"`
}

// SettingsSection uses pointers for numbers so an explicit zero can be told apart from unset.
type SettingsSection struct {
	ReadCapacityUnits   *int                `yaml:"read_capacity_units,omitempty"`
	WriteCapacityUnits  *int                `yaml:"write_capacity_units,omitempty"`
	KeyCreatePath       string              `yaml:"key_create_path,omitempty"`
	KeyAccessPath       string              `yaml:"key_access_path,omitempty"`
	DomainBasePath      string              `yaml:"custom_domain_base_path,omitempty"`
	KeySize             *int                `yaml:"key_size,omitempty"`
	KeyRetentionSeconds *int                `yaml:"key_retention_seconds,omitempty"`
	ProductionStage     string              `yaml:"production_stage,omitempty"`
	APIKeyHeader        string              `yaml:"api_key_header,omitempty"`
	Capabilities        CapabilitiesSection `yaml:"capabilities,omitempty"`
	Lambda              LambdaSection       `yaml:"lambda,omitempty"`
}

type CapabilitiesSection struct {
	Read   string `yaml:"read,omitempty"`
	Create string `yaml:"create,omitempty"`
	Delete string `yaml:"delete,omitempty"`
	Renew  string `yaml:"renew,omitempty"`
}

type LambdaSection struct {
	Runtime     string `yaml:"runtime,omitempty"`
	Handler     string `yaml:"handler,omitempty"`
	MemorySize  *int   `yaml:"memory_size,omitempty"`
	Timeout     *int   `yaml:"timeout,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type DNSSection struct {
	StackName string `yaml:"stack_name,omitempty"`
}

const currentVersion = 1

// DefaultFile returns a config populated with the built-in defaults.
func DefaultFile() File {
	d := params.DefaultDeployment()
	s := params.DefaultSettings()
	return File{
		Version: currentVersion,
		Deployment: DeploymentSection{
			Bucket:      d.Bucket,
			TableName:   d.TableName,
			StackName:   d.StackName,
			GatewayName: d.GatewayName,
			Stage:       d.Stage,
			Package:     d.PackagePath,
		},
		Settings: SettingsSection{
			ReadCapacityUnits:   intPtr(s.ReadCapacityUnits),
			WriteCapacityUnits:  intPtr(s.WriteCapacityUnits),
			KeyCreatePath:       s.KeyCreatePath,
			KeyAccessPath:       s.KeyAccessPath,
			KeySize:             intPtr(s.KeySize),
			KeyRetentionSeconds: intPtr(s.KeyRetentionSeconds),
		},
		DNS: DNSSection{StackName: params.DefaultDNSStackName},
	}
}

// ProjectConfigPath returns <projectRoot>/.akm/config.yaml.
func ProjectConfigPath(projectRoot string) (string, error) {
	root := strings.TrimSpace(projectRoot)
	if root == "" {
		return "", fmt.Errorf("project root is required")
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Join(root, meta.HomeDir, meta.ConfigFileName), nil
}

// FindProjectConfig searches startDir and its parents for .akm/config.yaml.
func FindProjectConfig(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, meta.HomeDir, meta.ConfigFileName)
		if fileops.FileExists(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load reads and strictly decodes a config file. Unknown keys are errors.
func Load(path string) (File, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	var cfg File
	dec := yaml.NewDecoder(bytes.NewReader(payload))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Version > currentVersion {
		return File{}, fmt.Errorf("config %s: unsupported version %d", path, cfg.Version)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg File) error {
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := fileops.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyDeployment overlays configured values onto d.
func (f File) ApplyDeployment(d params.Deployment) params.Deployment {
	src := f.Deployment
	setString(&d.Region, src.Region)
	setString(&d.Bucket, src.Bucket)
	setString(&d.TableName, src.TableName)
	setString(&d.StackName, src.StackName)
	setString(&d.GatewayName, src.GatewayName)
	setString(&d.Stage, src.Stage)
	setString(&d.DomainName, src.DomainName)
	setString(&d.CapabilityFile, src.CapabilityFile)
	setString(&d.PackagePath, src.Package)
	setString(&d.OutputDir, src.OutputDir)
	return d
}

// ApplySettings overlays configured values onto s.
func (f File) ApplySettings(s params.Settings) params.Settings {
	src := f.Settings
	setInt(&s.ReadCapacityUnits, src.ReadCapacityUnits)
	setInt(&s.WriteCapacityUnits, src.WriteCapacityUnits)
	setString(&s.KeyCreatePath, src.KeyCreatePath)
	setString(&s.KeyAccessPath, src.KeyAccessPath)
	setString(&s.DomainBasePath, src.DomainBasePath)
	setInt(&s.KeySize, src.KeySize)
	setInt(&s.KeyRetentionSeconds, src.KeyRetentionSeconds)
	setString(&s.ProductionStage, src.ProductionStage)
	setString(&s.APIKeyHeader, src.APIKeyHeader)
	setString(&s.Capabilities.Read, src.Capabilities.Read)
	setString(&s.Capabilities.Create, src.Capabilities.Create)
	setString(&s.Capabilities.Delete, src.Capabilities.Delete)
	setString(&s.Capabilities.Renew, src.Capabilities.Renew)
	setString(&s.Lambda.Runtime, src.Lambda.Runtime)
	setString(&s.Lambda.Handler, src.Lambda.Handler)
	setInt(&s.Lambda.MemorySize, src.Lambda.MemorySize)
	setInt(&s.Lambda.Timeout, src.Lambda.Timeout)
	setString(&s.Lambda.Description, src.Lambda.Description)
	return s
}

// DNSStackName returns the configured DNS stack name or the default.
func (f File) DNSStackName() string {
	if name := strings.TrimSpace(f.DNS.StackName); name != "" {
		return name
	}
	return params.DefaultDNSStackName
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

func setInt(dst *int, value *int) {
	if value != nil {
		*dst = *value
	}
}

func intPtr(v int) *int {
	return &v
}
