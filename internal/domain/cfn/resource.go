// Where: internal/domain/cfn/resource.go
// What: Resource declarations and their type tags.
// Why: A fixed set of resource kinds makes up the service and DNS stacks.
package cfn

import (
	"encoding/json"
	"sort"
)

// ResourceType is the CloudFormation type tag of a resource.
type ResourceType string

const (
	TypeTable             ResourceType = "AWS::DynamoDB::Table"
	TypeFunction          ResourceType = "AWS::Lambda::Function"
	TypeRole              ResourceType = "AWS::IAM::Role"
	TypeRestAPI           ResourceType = "AWS::ApiGateway::RestApi"
	TypeGatewayResource   ResourceType = "AWS::ApiGateway::Resource"
	TypeGatewayMethod     ResourceType = "AWS::ApiGateway::Method"
	TypeGatewayDeployment ResourceType = "AWS::ApiGateway::Deployment"
	TypeBasePathMapping   ResourceType = "AWS::ApiGateway::BasePathMapping"
	TypeCustomDomain      ResourceType = "AWS::ApiGateway::DomainName"
	TypeCertificate       ResourceType = "AWS::CertificateManager::Certificate"
	TypeRecordSet         ResourceType = "AWS::Route53::RecordSet"
)

// Resource is one declaration of a template.
type Resource struct {
	Type       ResourceType
	Properties Properties
	DependsOn  []string
}

type resourceJSON struct {
	Type       ResourceType `json:"Type"`
	DependsOn  []string     `json:"DependsOn,omitempty"`
	Properties Properties   `json:"Properties"`
}

func (r Resource) MarshalJSON() ([]byte, error) {
	props := r.Properties
	if props == nil {
		props = Properties{}
	}
	return json.Marshal(resourceJSON{Type: r.Type, DependsOn: r.DependsOn, Properties: props})
}

// References returns every logical ID the resource refers to through intrinsics.
func (r Resource) References() []string {
	return references(r.Properties, nil)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
