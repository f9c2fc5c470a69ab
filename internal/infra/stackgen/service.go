// Where: internal/infra/stackgen/service.go
// What: Resource graph of the API key manager service stack.
// Why: Declare table, function, gateway and roles with references that resolve inside one template.
package stackgen

import (
	"fmt"
	"strconv"

	"github.com/poruru-code/akm-cli/internal/domain/cfn"
	"github.com/poruru-code/akm-cli/internal/domain/params"
)

// BuildServiceTemplate declares the service stack for a deployment.
// The deployment is expected to have the stage naming rule applied already.
func BuildServiceTemplate(d params.Deployment, s params.Settings) (*cfn.Template, error) {
	t := cfn.NewTemplate()
	add := func(id string, r cfn.Resource) error {
		if err := t.Add(id, r); err != nil {
			return fmt.Errorf("declare %s: %w", id, err)
		}
		return nil
	}

	if err := add(TableID, tableResource(d, s)); err != nil {
		return nil, err
	}
	if err := add(FunctionRoleID, functionRoleResource()); err != nil {
		return nil, err
	}
	if err := add(FunctionID, functionResource(d, s)); err != nil {
		return nil, err
	}
	if err := add(GatewayID, gatewayResource(d)); err != nil {
		return nil, err
	}

	tree := newResourceTree(t)
	createLeaf, err := tree.add(s.KeyCreatePath)
	if err != nil {
		return nil, err
	}
	if err := add(CreateMethodID, methodResource(createLeaf)); err != nil {
		return nil, err
	}
	accessLeaf, err := tree.add(s.KeyAccessPath)
	if err != nil {
		return nil, err
	}
	if accessLeaf == createLeaf {
		return nil, fmt.Errorf("%w: create and access paths resolve to the same resource", ErrInvalidResourcePath)
	}
	if err := add(AccessMethodID, methodResource(accessLeaf)); err != nil {
		return nil, err
	}
	if err := add(GatewayRoleID, gatewayRoleResource()); err != nil {
		return nil, err
	}
	if err := add(GatewayDeploymentID, cfn.Resource{
		Type:      cfn.TypeGatewayDeployment,
		DependsOn: []string{CreateMethodID, AccessMethodID},
		Properties: cfn.Properties{
			"RestApiId": cfn.Ref{Target: GatewayID},
			"StageName": d.Stage,
		},
	}); err != nil {
		return nil, err
	}
	if d.HasDomain() {
		if err := add(GatewayMappingID, cfn.Resource{
			Type:      cfn.TypeBasePathMapping,
			DependsOn: []string{GatewayDeploymentID},
			Properties: cfn.Properties{
				"DomainName": d.DomainName,
				"BasePath":   s.DomainBasePath,
				"RestApiId":  cfn.Ref{Target: GatewayID},
				"Stage":      d.Stage,
			},
		}); err != nil {
			return nil, err
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func tableResource(d params.Deployment, s params.Settings) cfn.Resource {
	props := cfn.Properties{
		"AttributeDefinitions": []any{
			map[string]any{"AttributeName": TableHashKey, "AttributeType": "S"},
		},
		"KeySchema": []any{
			map[string]any{"AttributeName": TableHashKey, "KeyType": "HASH"},
		},
		"TimeToLiveSpecification": map[string]any{
			"AttributeName": TableTTLAttribute,
			"Enabled":       true,
		},
	}
	if s.Provisioned() {
		props["BillingMode"] = "PROVISIONED"
		props["ProvisionedThroughput"] = map[string]any{
			"ReadCapacityUnits":  s.ReadCapacityUnits,
			"WriteCapacityUnits": s.WriteCapacityUnits,
		}
	} else {
		props["BillingMode"] = "PAY_PER_REQUEST"
	}
	if d.TableName != "" {
		props["TableName"] = d.TableName
	}
	return cfn.Resource{Type: cfn.TypeTable, Properties: props}
}

func functionRoleResource() cfn.Resource {
	return cfn.Resource{
		Type: cfn.TypeRole,
		Properties: cfn.Properties{
			"AssumeRolePolicyDocument": assumeRolePolicy("lambda.amazonaws.com"),
			"Policies": []any{
				policy(accessPolicyName,
					[]any{"dynamodb:PutItem", "dynamodb:GetItem", "dynamodb:DeleteItem", "dynamodb:UpdateItem"},
					cfn.GetAtt{Target: TableID, Attribute: "Arn"}),
				policy(loggingPolicyName,
					[]any{"logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"},
					cfn.Join{Parts: []any{
						"arn:aws:logs:", cfn.Ref{Target: cfn.PseudoRegion},
						":", cfn.Ref{Target: cfn.PseudoAccountID}, ":*",
					}}),
			},
		},
	}
}

func functionResource(d params.Deployment, s params.Settings) cfn.Resource {
	return cfn.Resource{
		Type: cfn.TypeFunction,
		Properties: cfn.Properties{
			"Code": map[string]any{
				"S3Bucket": d.Bucket,
				"S3Key":    d.PackageKey(),
			},
			"Description": s.Lambda.Description,
			"Handler":     s.Lambda.Handler,
			"Runtime":     s.Lambda.Runtime,
			"MemorySize":  s.Lambda.MemorySize,
			"Timeout":     s.Lambda.Timeout,
			"Role":        cfn.GetAtt{Target: FunctionRoleID, Attribute: "Arn"},
			"Environment": map[string]any{
				"Variables": map[string]any{
					EnvTableName:       cfn.Ref{Target: TableID},
					EnvCreatePath:      s.KeyCreatePath,
					EnvAccessPath:      s.KeyAccessPath,
					EnvRetentionPeriod: strconv.Itoa(s.KeyRetentionSeconds),
				},
			},
		},
	}
}

func gatewayResource(d params.Deployment) cfn.Resource {
	return cfn.Resource{
		Type: cfn.TypeRestAPI,
		Properties: cfn.Properties{
			"Name":        d.GatewayName,
			"Description": fmt.Sprintf("API Key Management Service (%s)", d.Stage),
			"EndpointConfiguration": map[string]any{
				"Types": []any{"REGIONAL"},
			},
		},
	}
}

func methodResource(resourceID string) cfn.Resource {
	return cfn.Resource{
		Type: cfn.TypeGatewayMethod,
		Properties: cfn.Properties{
			"RestApiId":         cfn.Ref{Target: GatewayID},
			"ResourceId":        cfn.Ref{Target: resourceID},
			"HttpMethod":        "ANY",
			"AuthorizationType": "NONE",
			"Integration": map[string]any{
				"Type":                  "AWS_PROXY",
				"IntegrationHttpMethod": "POST",
				"Credentials":           cfn.GetAtt{Target: GatewayRoleID, Attribute: "Arn"},
				"Uri": cfn.Join{Parts: []any{
					"arn:aws:apigateway:", cfn.Ref{Target: cfn.PseudoRegion},
					":lambda:path/2015-03-31/functions/",
					cfn.GetAtt{Target: FunctionID, Attribute: "Arn"},
					"/invocations",
				}},
			},
		},
	}
}

func gatewayRoleResource() cfn.Resource {
	return cfn.Resource{
		Type: cfn.TypeRole,
		Properties: cfn.Properties{
			"AssumeRolePolicyDocument": assumeRolePolicy("apigateway.amazonaws.com"),
			"Policies": []any{
				policy(invokePolicyName,
					[]any{"lambda:InvokeFunction"},
					cfn.GetAtt{Target: FunctionID, Attribute: "Arn"}),
			},
		},
	}
}

func assumeRolePolicy(service string) map[string]any {
	return map[string]any{
		"Version": policyVersion,
		"Statement": []any{
			map[string]any{
				"Effect":    "Allow",
				"Principal": map[string]any{"Service": []any{service}},
				"Action":    []any{"sts:AssumeRole"},
			},
		},
	}
}

func policy(name string, actions []any, resource any) map[string]any {
	return map[string]any{
		"PolicyName": name,
		"PolicyDocument": map[string]any{
			"Version": policyVersion,
			"Statement": []any{
				map[string]any{
					"Effect":   "Allow",
					"Action":   actions,
					"Resource": resource,
				},
			},
		},
	}
}
