// Where: internal/domain/cfn/template.go
// What: Insertion-ordered template of resource declarations.
// Why: Generated templates must be reproducible and internally consistent before upload.
package cfn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/poruru-code/akm-cli/internal/domain/dag"
)

var (
	ErrDuplicateResource  = errors.New("duplicate resource")
	ErrDanglingReference  = errors.New("dangling reference")
	ErrDependencyCycle    = errors.New("dependency cycle")
	errEmptyLogicalID     = errors.New("logical id is required")
	errMissingTypeForDecl = errors.New("resource type is required")
)

// Template maps logical IDs to resources and remembers insertion order.
type Template struct {
	order     []string
	resources map[string]Resource
}

func NewTemplate() *Template {
	return &Template{resources: map[string]Resource{}}
}

// Add declares a resource. Reusing a logical ID is an error.
func (t *Template) Add(id string, resource Resource) error {
	if id == "" {
		return errEmptyLogicalID
	}
	if resource.Type == "" {
		return fmt.Errorf("%s: %w", id, errMissingTypeForDecl)
	}
	if _, exists := t.resources[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, id)
	}
	t.order = append(t.order, id)
	t.resources[id] = resource
	return nil
}

// Has reports whether the logical ID is declared.
func (t *Template) Has(id string) bool {
	_, ok := t.resources[id]
	return ok
}

func (t *Template) Get(id string) (Resource, bool) {
	resource, ok := t.resources[id]
	return resource, ok
}

// IDs returns logical IDs in insertion order.
func (t *Template) IDs() []string {
	return append([]string(nil), t.order...)
}

func (t *Template) Len() int {
	return len(t.order)
}

// Validate checks that every reference resolves and that the dependency graph is acyclic.
func (t *Template) Validate() error {
	_, err := t.CreationLevels()
	return err
}

// CreationLevels groups resources into creation waves over DependsOn and reference edges.
func (t *Template) CreationLevels() ([][]string, error) {
	graph := dag.NewDirectedAcyclicGraph[string]()
	for i, id := range t.order {
		if err := graph.AddVertex(id, i); err != nil {
			return nil, err
		}
	}
	for _, id := range t.order {
		resource := t.resources[id]
		deps := make([]string, 0, len(resource.DependsOn))
		for _, dep := range resource.DependsOn {
			if !t.Has(dep) {
				return nil, fmt.Errorf("%w: %s DependsOn %s", ErrDanglingReference, id, dep)
			}
			deps = append(deps, dep)
		}
		for _, ref := range resource.References() {
			if !t.Has(ref) {
				return nil, fmt.Errorf("%w: %s references %s", ErrDanglingReference, id, ref)
			}
			if ref == id {
				return nil, fmt.Errorf("%w: %s references itself", ErrDependencyCycle, id)
			}
			deps = append(deps, ref)
		}
		if err := graph.AddDependencies(id, deps); err != nil {
			if cycle := dag.AsCycleError[string](err); cycle != nil {
				return nil, fmt.Errorf("%w: %v", ErrDependencyCycle, cycle)
			}
			return nil, err
		}
	}
	return graph.TopologicalSortLevels()
}

// CreationOrder flattens CreationLevels.
func (t *Template) CreationOrder() ([]string, error) {
	levels, err := t.CreationLevels()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, t.Len())
	for _, level := range levels {
		out = append(out, level...)
	}
	return out, nil
}

// MarshalJSON writes {"Resources": {...}} with resources in insertion order.
func (t *Template) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"Resources":{`)
	for i, id := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(t.resources[id])
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// Render serializes the template compactly or with two-space indentation.
func (t *Template) Render(indent bool) ([]byte, error) {
	data, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if !indent {
		return data, nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
