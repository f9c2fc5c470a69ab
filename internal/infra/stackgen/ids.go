// Where: internal/infra/stackgen/ids.go
// What: Logical IDs of the generated stacks.
// Why: Verification and tests look resources up by these names.
package stackgen

const (
	TableID               = "ApiKeyCapabilityTable"
	FunctionID            = "ApiKeyManagementLambda"
	FunctionRoleID        = "ApiKeyManagementLambdaRole"
	GatewayID             = "ApiKeyRestGateway"
	GatewayRoleID         = "ApiKeyRestGatewayRole"
	CreateMethodID        = "ApiKeyRestCreateMethod"
	AccessMethodID        = "ApiKeyRestAccessMethod"
	GatewayDeploymentID   = "ApiKeyRestGatewayDeployment"
	GatewayMappingID      = "ApiKeyRestGatewayMapping"
	GatewayResourcePrefix = "ApiKeyRestResource"

	CertificateID  = "ApiGatewayCert"
	CustomDomainID = "ApiGatewayDomain"
	DNSRecordID    = "ApiGatewayDnsRecord"

	TableHashKey      = "apiKey"
	TableTTLAttribute = "removalTimestamp"

	accessPolicyName  = "ApiKeyCapabilityAccessPolicy"
	loggingPolicyName = "ApiKeyManagementLoggingPolicy"
	invokePolicyName  = "ApiKeyManagementLambdaPolicy"
	policyVersion     = "2012-10-17"
)

// Environment variables read by the deployed service.
const (
	EnvTableName       = "AWS_API_KEY_TABLE_NAME"
	EnvCreatePath      = "AWS_API_RESOURCE_KEY_CREATE_PATH"
	EnvAccessPath      = "AWS_API_RESOURCE_KEY_ACCESS_PATH"
	EnvRetentionPeriod = "AWS_API_KEY_RETENTION_PERIOD"
)
