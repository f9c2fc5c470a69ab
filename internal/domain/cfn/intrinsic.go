// Where: internal/domain/cfn/intrinsic.go
// What: CloudFormation intrinsic functions used inside property bags.
// Why: Cross-resource references are typed so the template can check they resolve.
package cfn

import (
	"encoding/json"
	"strings"
)

const (
	PseudoRegion    = "AWS::Region"
	PseudoAccountID = "AWS::AccountId"
)

// Ref resolves to the primary identifier of a resource or a pseudo parameter.
type Ref struct {
	Target string
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": r.Target})
}

// GetAtt resolves to a named attribute of a resource.
type GetAtt struct {
	Target    string
	Attribute string
}

func (g GetAtt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{"Fn::GetAtt": {g.Target, g.Attribute}})
}

// Join concatenates its parts with a separator once values are known.
type Join struct {
	Separator string
	Parts     []any
}

func (j Join) MarshalJSON() ([]byte, error) {
	parts := j.Parts
	if parts == nil {
		parts = []any{}
	}
	return json.Marshal(map[string][]any{"Fn::Join": {j.Separator, parts}})
}

// Properties is the property bag of a resource. Keys serialize in sorted order.
type Properties map[string]any

func isPseudoParameter(target string) bool {
	return strings.HasPrefix(target, "AWS::")
}

// references collects the logical IDs referenced by a property value, in walk order.
func references(value any, out []string) []string {
	switch v := value.(type) {
	case Ref:
		if !isPseudoParameter(v.Target) {
			out = append(out, v.Target)
		}
	case GetAtt:
		out = append(out, v.Target)
	case Join:
		for _, part := range v.Parts {
			out = references(part, out)
		}
	case Properties:
		for _, key := range sortedKeys(v) {
			out = references(v[key], out)
		}
	case map[string]any:
		for _, key := range sortedKeys(v) {
			out = references(v[key], out)
		}
	case []any:
		for _, item := range v {
			out = references(item, out)
		}
	case []Properties:
		for _, item := range v {
			out = references(item, out)
		}
	case []map[string]any:
		for _, item := range v {
			out = references(item, out)
		}
	}
	return out
}
