// Where: internal/domain/params/settings.go
// What: Fixed service settings shared by the template builder and the orchestrator.
// Why: One immutable value instead of scattered constants keeps the stack and the record consistent.
package params

import (
	"fmt"
	"strings"
)

// Capabilities names the capability entries written to the root record.
type Capabilities struct {
	Read   string
	Create string
	Delete string
	Renew  string
}

// Lambda describes the compute function hosting the key manager.
type Lambda struct {
	Runtime     string
	Handler     string
	MemorySize  int
	Timeout     int
	Description string
}

type Settings struct {
	ReadCapacityUnits   int
	WriteCapacityUnits  int
	KeyCreatePath       string
	KeyAccessPath       string
	DomainBasePath      string
	KeySize             int
	KeyRetentionSeconds int
	ProductionStage     string
	APIKeyHeader        string
	Capabilities        Capabilities
	Lambda              Lambda
}

func DefaultSettings() Settings {
	return Settings{
		ReadCapacityUnits:   1,
		WriteCapacityUnits:  1,
		KeyCreatePath:       "/Create",
		KeyAccessPath:       "/Keys/{apiKey}",
		DomainBasePath:      "ApiKeyManager",
		KeySize:             30,
		KeyRetentionSeconds: 2592000,
		ProductionStage:     "production",
		APIKeyHeader:        "x-zynaptic-api-key",
		Capabilities: Capabilities{
			Read:   "com.zynaptic.aws.api.key.read",
			Create: "com.zynaptic.aws.api.key.create",
			Delete: "com.zynaptic.aws.api.key.delete",
			Renew:  "com.zynaptic.aws.api.key.renew",
		},
		Lambda: Lambda{
			Runtime:     "java8.al2",
			Handler:     "com.zynaptic.aws.api.key.manager.ApiHandler",
			MemorySize:  256,
			Timeout:     30,
			Description: "API Key Management Service",
		},
	}
}

// Provisioned reports whether the table uses provisioned throughput.
func (s Settings) Provisioned() bool {
	return s.ReadCapacityUnits > 0 && s.WriteCapacityUnits > 0
}

// AccessPathFor substitutes the key into the access path template.
func (s Settings) AccessPathFor(apiKey string) string {
	return strings.ReplaceAll(s.KeyAccessPath, "{apiKey}", apiKey)
}

func (s Settings) Validate() error {
	if s.KeySize <= 0 {
		return fmt.Errorf("key size must be positive, got %d", s.KeySize)
	}
	if s.KeyRetentionSeconds < 0 {
		return fmt.Errorf("key retention must not be negative, got %d", s.KeyRetentionSeconds)
	}
	if strings.TrimSpace(s.ProductionStage) == "" {
		return fmt.Errorf("production stage name is required")
	}
	if strings.TrimSpace(s.APIKeyHeader) == "" {
		return fmt.Errorf("api key header is required")
	}
	return nil
}
