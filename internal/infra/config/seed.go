// Where: internal/infra/config/seed.go
// What: Capability seed file loading.
// Why: Operators may pre-populate the root capability set in JSON or YAML.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/poruru-code/akm-cli/internal/domain/attr"
	"github.com/poruru-code/akm-cli/internal/domain/capability"
)

// LoadCapabilitySet reads a seed file. An empty path yields an empty set.
func LoadCapabilitySet(path string) (capability.Set, error) {
	if path == "" {
		return capability.Set{}, nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capability file: %w", err)
	}
	return ParseCapabilitySet(payload)
}

// ParseCapabilitySet decodes JSON or YAML capability data. Numbers keep their text.
func ParseCapabilitySet(payload []byte) (capability.Set, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return capability.Set{}, nil
	}
	jsonData, err := yaml.YAMLToJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("convert capability file to json: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode capability file: %w", err)
	}
	value, err := attr.FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("capability file: %w", err)
	}
	return capability.ParseSet(value)
}
