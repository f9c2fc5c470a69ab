// Where: internal/infra/stackgen/paths.go
// What: Gateway resource trees for configured URL paths.
// Why: Each path segment needs its own gateway resource chained to its parent.
package stackgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poruru-code/akm-cli/internal/domain/cfn"
)

var ErrInvalidResourcePath = errors.New("invalid resource path")

// resourceTree declares gateway resources for paths and remembers which cumulative
// prefix produced each logical ID.
type resourceTree struct {
	template *cfn.Template
	owners   map[string]string
}

func newResourceTree(t *cfn.Template) *resourceTree {
	return &resourceTree{template: t, owners: map[string]string{}}
}

// add declares the resources of path and returns the logical ID of the last segment.
// Prefixes shared with an earlier path reuse the existing declarations.
func (r *resourceTree) add(path string) (string, error) {
	segments, err := splitResourcePath(path)
	if err != nil {
		return "", err
	}
	parent := any(cfn.GetAtt{Target: GatewayID, Attribute: "RootResourceId"})
	id := GatewayResourcePrefix
	prefix := ""
	for _, segment := range segments {
		token, err := segmentToken(segment)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidResourcePath, path, err)
		}
		id += token
		prefix += "/" + segment

		if owner, exists := r.owners[id]; exists {
			if owner != prefix {
				return "", fmt.Errorf("%w: %s and %s both map to resource %s", ErrInvalidResourcePath, owner, prefix, id)
			}
		} else {
			err := r.template.Add(id, cfn.Resource{
				Type: cfn.TypeGatewayResource,
				Properties: cfn.Properties{
					"RestApiId": cfn.Ref{Target: GatewayID},
					"ParentId":  parent,
					"PathPart":  segment,
				},
			})
			if err != nil {
				return "", err
			}
			r.owners[id] = prefix
		}
		parent = cfn.Ref{Target: id}
	}
	return id, nil
}

func splitResourcePath(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidResourcePath, path)
	}
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidResourcePath, path)
		}
	}
	return segments, nil
}

// segmentToken is the logical ID fragment for a segment: its ASCII letters and digits
// with the first letter upper-cased, and a Param marker for {variable} segments.
func segmentToken(segment string) (string, error) {
	marker := ""
	name := segment
	if strings.HasPrefix(segment, "{") || strings.HasSuffix(segment, "}") {
		if !strings.HasPrefix(segment, "{") || !strings.HasSuffix(segment, "}") || len(segment) < 3 {
			return "", fmt.Errorf("malformed path variable %q", segment)
		}
		marker = "Param"
		name = segment[1 : len(segment)-1]
	}
	var b strings.Builder
	for _, r := range name {
		if r < 128 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	token := b.String()
	if token == "" {
		return "", fmt.Errorf("segment %q has no alphanumeric characters", segment)
	}
	return marker + strings.ToUpper(token[:1]) + token[1:], nil
}
