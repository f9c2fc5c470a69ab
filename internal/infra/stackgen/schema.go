// Where: internal/infra/stackgen/schema.go
// What: JSON schema validation of generated templates.
// Why: Catch structural mistakes locally before a template is uploaded and submitted.
package stackgen

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"

	"github.com/poruru-code/akm-cli/internal/domain/cfn"
)

const schemaURL = "https://schemas.akm.invalid/template.schema.json"

//go:embed schema/template.schema.json
var templateSchema []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// ValidateDocument checks a template document, JSON or YAML, against the embedded schema.
func ValidateDocument(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}
	jsonData, err := yaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}
	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("decode template: %w", err)
	}
	if err := sch.Validate(document); err != nil {
		return fmt.Errorf("template schema: %w", err)
	}
	return nil
}

// Render serializes a template and validates the result.
func Render(t *cfn.Template, indent bool) ([]byte, error) {
	data, err := t.Render(indent)
	if err != nil {
		return nil, err
	}
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(templateSchema)); err != nil {
			schemaErr = fmt.Errorf("load template schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
