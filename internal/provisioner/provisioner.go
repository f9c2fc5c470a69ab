// Where: internal/provisioner/provisioner.go
// What: Provisioning API surface used by the deployment and DNS workflows.
// Why: Keep workflows on narrow interfaces so they can run against fakes and local emulators.
package provisioner

import (
	"context"
	"io"
	"time"

	"github.com/poruru-code/akm-cli/internal/domain/attr"
)

type DynamoDBAPI interface {
	ListTables(ctx context.Context) ([]string, error)
	PutItem(ctx context.Context, table string, item map[string]attr.Attribute) (PutItemResult, error)
	GetItem(ctx context.Context, table string, key map[string]attr.Attribute) (map[string]attr.Attribute, error)
}

type S3API interface {
	ListBuckets(ctx context.Context) ([]string, error)
	CreateBucket(ctx context.Context, name, region string) error
	PutObject(ctx context.Context, input PutObjectInput) (string, error)
}

type StackAPI interface {
	CreateStack(ctx context.Context, input CreateStackInput) (string, error)
	WaitCreateComplete(ctx context.Context, stack string, maxWait time.Duration) error
	DescribeResource(ctx context.Context, stack, logicalID string) (string, error)
	DeleteStack(ctx context.Context, stack string) error
}

type DomainAPI interface {
	ListDomainNames(ctx context.Context) ([]DomainName, error)
}

type HostedZoneAPI interface {
	ListHostedZones(ctx context.Context) ([]HostedZone, error)
}

type IdentityAPI interface {
	CallerIdentity(ctx context.Context) (Identity, error)
}

type PutItemResult struct {
	ConsumedCapacity float64
}

type PutObjectInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
}

// CreateStackInput carries either a TemplateURL or a TemplateBody.
type CreateStackInput struct {
	Name         string
	TemplateURL  string
	TemplateBody string
	IAM          bool
	Token        string
}

type DomainName struct {
	Name          string
	EndpointTypes []string
}

// Regional reports whether the domain has a regional endpoint.
func (d DomainName) Regional() bool {
	for _, endpointType := range d.EndpointTypes {
		if endpointType == "REGIONAL" {
			return true
		}
	}
	return false
}

type HostedZone struct {
	ID      string
	Name    string
	Private bool
}

type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// Clients bundles one adapter per service.
type Clients struct {
	Region      string
	DynamoDB    DynamoDBAPI
	S3          S3API
	Stacks      StackAPI
	Domains     DomainAPI
	HostedZones HostedZoneAPI
	Identity    IdentityAPI
}

// ClientFactory builds Clients for a set of options.
type ClientFactory func(ctx context.Context, opts Options) (Clients, error)
