// Where: internal/provisioner/provisioner_test.go
// What: Tests for AWS adapters against SDK-shaped fakes.
// Why: Ensure request mapping and error translation stay stable.
package provisioner

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/poruru-code/akm-cli/internal/domain/attr"
)

type fakeDynamoSDK struct {
	tablePages [][]string
	put        *dynamodb.PutItemInput
	getItem    map[string]types.AttributeValue
}

func (f *fakeDynamoSDK) ListTables(_ context.Context, in *dynamodb.ListTablesInput, _ ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	page := 0
	if in.ExclusiveStartTableName != nil {
		page = 1
	}
	out := &dynamodb.ListTablesOutput{TableNames: f.tablePages[page]}
	if page+1 < len(f.tablePages) {
		out.LastEvaluatedTableName = aws.String("cursor")
	}
	return out, nil
}

func (f *fakeDynamoSDK) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.put = in
	return &dynamodb.PutItemOutput{ConsumedCapacity: &types.ConsumedCapacity{CapacityUnits: aws.Float64(1)}}, nil
}

func (f *fakeDynamoSDK) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.getItem}, nil
}

func TestDynamoListTablesFollowsPages(t *testing.T) {
	client := awsDynamoClient{client: &fakeDynamoSDK{tablePages: [][]string{{"a", "b"}, {"c"}}}}
	names, err := client.ListTables(context.Background())
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	if len(names) != 3 || names[2] != "c" {
		t.Fatalf("unexpected tables: %v", names)
	}
}

func TestDynamoPutItemConvertsAttributes(t *testing.T) {
	fake := &fakeDynamoSDK{}
	client := awsDynamoClient{client: fake}
	item := map[string]attr.Attribute{
		"apiKey": {Tag: attr.TagS, S: "k"},
		"caps":   {Tag: attr.TagM, M: map[string]attr.Attribute{"lock": {Tag: attr.TagBOOL}}},
	}

	result, err := client.PutItem(context.Background(), "Table", item)
	if err != nil {
		t.Fatalf("put item: %v", err)
	}
	if result.ConsumedCapacity != 1 {
		t.Fatalf("unexpected capacity: %v", result.ConsumedCapacity)
	}
	if fake.put.ReturnConsumedCapacity != types.ReturnConsumedCapacityTotal {
		t.Fatalf("expected TOTAL consumed capacity, got %q", fake.put.ReturnConsumedCapacity)
	}
	key, ok := fake.put.Item["apiKey"].(*types.AttributeValueMemberS)
	if !ok || key.Value != "k" {
		t.Fatalf("unexpected apiKey attribute: %#v", fake.put.Item["apiKey"])
	}
	if _, ok := fake.put.Item["caps"].(*types.AttributeValueMemberM); !ok {
		t.Fatalf("expected map attribute, got %#v", fake.put.Item["caps"])
	}
}

func TestDynamoGetItemMissing(t *testing.T) {
	client := awsDynamoClient{client: &fakeDynamoSDK{}}
	_, err := client.GetItem(context.Background(), "Table", map[string]attr.Attribute{"apiKey": {Tag: attr.TagS, S: "k"}})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

type fakeS3SDK struct {
	createErr error
	created   *s3.CreateBucketInput
	put       *s3.PutObjectInput
}

func (f *fakeS3SDK) ListBuckets(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	return &s3.ListBucketsOutput{}, nil
}

func (f *fakeS3SDK) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = in
	return &s3.CreateBucketOutput{}, f.createErr
}

func (f *fakeS3SDK) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{ETag: aws.String(`"etag-1"`)}, nil
}

func TestCreateBucketInputLocationConstraint(t *testing.T) {
	if in := createBucketInput("b", "us-east-1"); in.CreateBucketConfiguration != nil {
		t.Fatalf("us-east-1 must not carry a location constraint")
	}
	in := createBucketInput("b", "eu-west-1")
	if in.CreateBucketConfiguration == nil || string(in.CreateBucketConfiguration.LocationConstraint) != "eu-west-1" {
		t.Fatalf("unexpected configuration: %#v", in.CreateBucketConfiguration)
	}
}

func TestCreateBucketAlreadyOwnedIsSuccess(t *testing.T) {
	fake := &fakeS3SDK{createErr: &smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}}
	if err := (awsS3Client{client: fake}).CreateBucket(context.Background(), "b", "eu-west-1"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	fake.createErr = &smithy.GenericAPIError{Code: "AccessDenied"}
	if err := (awsS3Client{client: fake}).CreateBucket(context.Background(), "b", "eu-west-1"); err == nil {
		t.Fatalf("expected access denied to fail")
	}
}

func TestPutObjectReturnsETag(t *testing.T) {
	fake := &fakeS3SDK{}
	etag, err := (awsS3Client{client: fake}).PutObject(context.Background(), PutObjectInput{
		Bucket: "b", Key: "k", Body: bytes.NewReader([]byte("x")), ContentType: "application/json",
	})
	if err != nil {
		t.Fatalf("put object: %v", err)
	}
	if etag != `"etag-1"` {
		t.Fatalf("unexpected etag %q", etag)
	}
	if aws.ToString(fake.put.ContentType) != "application/json" {
		t.Fatalf("content type not forwarded")
	}
}

type fakeCFN struct {
	createErr error
	created   *cloudformation.CreateStackInput
	status    cfntypes.StackStatus
	deleted   string
}

func (f *fakeCFN) CreateStack(_ context.Context, in *cloudformation.CreateStackInput, _ ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error) {
	f.created = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &cloudformation.CreateStackOutput{StackId: aws.String("arn:stack/1")}, nil
}

func (f *fakeCFN) DescribeStacks(context.Context, *cloudformation.DescribeStacksInput, ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	return &cloudformation.DescribeStacksOutput{Stacks: []cfntypes.Stack{{
		StackStatus:       f.status,
		StackStatusReason: aws.String("role creation failed"),
	}}}, nil
}

func (f *fakeCFN) DescribeStackResource(_ context.Context, in *cloudformation.DescribeStackResourceInput, _ ...func(*cloudformation.Options)) (*cloudformation.DescribeStackResourceOutput, error) {
	return &cloudformation.DescribeStackResourceOutput{StackResourceDetail: &cfntypes.StackResourceDetail{
		PhysicalResourceId: aws.String("id-" + aws.ToString(in.LogicalResourceId)),
	}}, nil
}

func (f *fakeCFN) DeleteStack(_ context.Context, in *cloudformation.DeleteStackInput, _ ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error) {
	f.deleted = aws.ToString(in.StackName)
	return &cloudformation.DeleteStackOutput{}, nil
}

type fakeWaiter struct {
	err     error
	maxWait time.Duration
}

func (f *fakeWaiter) Wait(_ context.Context, _ *cloudformation.DescribeStacksInput, maxWait time.Duration, _ ...func(*cloudformation.StackCreateCompleteWaiterOptions)) error {
	f.maxWait = maxWait
	return f.err
}

func TestCreateStackRequest(t *testing.T) {
	fake := &fakeCFN{}
	client := awsStackClient{client: fake, waiter: &fakeWaiter{}}
	id, err := client.CreateStack(context.Background(), CreateStackInput{
		Name: "s", TemplateURL: "https://b.s3.eu-west-1.amazonaws.com/s-template.json", IAM: true, Token: "tok",
	})
	if err != nil {
		t.Fatalf("create stack: %v", err)
	}
	if id != "arn:stack/1" {
		t.Fatalf("unexpected stack id %q", id)
	}
	if len(fake.created.Capabilities) != 1 || fake.created.Capabilities[0] != cfntypes.CapabilityCapabilityIam {
		t.Fatalf("expected CAPABILITY_IAM, got %v", fake.created.Capabilities)
	}
	if aws.ToString(fake.created.ClientRequestToken) != "tok" || fake.created.TemplateBody != nil {
		t.Fatalf("unexpected request: %#v", fake.created)
	}

	if _, err := client.CreateStack(context.Background(), CreateStackInput{Name: "s"}); err == nil {
		t.Fatalf("expected error without template")
	}
}

func TestCreateStackAlreadyExists(t *testing.T) {
	fake := &fakeCFN{createErr: &smithy.GenericAPIError{Code: "AlreadyExistsException"}}
	_, err := (awsStackClient{client: fake}).CreateStack(context.Background(), CreateStackInput{Name: "s", TemplateBody: "{}"})
	if !errors.Is(err, ErrStackExists) {
		t.Fatalf("expected ErrStackExists, got %v", err)
	}
}

func TestWaitCreateCompleteReportsStatus(t *testing.T) {
	waiter := &fakeWaiter{}
	fake := &fakeCFN{status: cfntypes.StackStatusRollbackComplete}
	client := awsStackClient{client: fake, waiter: waiter}

	if err := client.WaitCreateComplete(context.Background(), "s", 0); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if waiter.maxWait != DefaultMaxWait {
		t.Fatalf("expected default max wait, got %v", waiter.maxWait)
	}

	waiter.err = errors.New("waiter state transitioned to Failure")
	err := client.WaitCreateComplete(context.Background(), "s", time.Minute)
	if !errors.Is(err, ErrStackFailed) {
		t.Fatalf("expected ErrStackFailed, got %v", err)
	}
}

func TestDescribeResourceAndDelete(t *testing.T) {
	fake := &fakeCFN{}
	client := awsStackClient{client: fake}
	id, err := client.DescribeResource(context.Background(), "s", "ApiKeyRestGateway")
	if err != nil || id != "id-ApiKeyRestGateway" {
		t.Fatalf("unexpected result %q %v", id, err)
	}
	if err := client.DeleteStack(context.Background(), "s"); err != nil || fake.deleted != "s" {
		t.Fatalf("delete stack: %v (%q)", err, fake.deleted)
	}
}

type fakeRoute53 struct{}

func (fakeRoute53) ListHostedZones(_ context.Context, in *route53.ListHostedZonesInput, _ ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error) {
	if in.Marker == nil {
		return &route53.ListHostedZonesOutput{
			HostedZones: []r53types.HostedZone{{Id: aws.String("/hostedzone/Z1"), Name: aws.String("example.com.")}},
			IsTruncated: true,
			NextMarker:  aws.String("Z2"),
		}, nil
	}
	return &route53.ListHostedZonesOutput{
		HostedZones: []r53types.HostedZone{{
			Id:     aws.String("/hostedzone/Z2"),
			Name:   aws.String("internal.example.com."),
			Config: &r53types.HostedZoneConfig{PrivateZone: true},
		}},
	}, nil
}

func TestListHostedZonesStripsPrefixAndPages(t *testing.T) {
	zones, err := (awsHostedZoneClient{client: fakeRoute53{}}).ListHostedZones(context.Background())
	if err != nil {
		t.Fatalf("list hosted zones: %v", err)
	}
	if len(zones) != 2 || zones[0].ID != "Z1" || zones[1].ID != "Z2" || !zones[1].Private {
		t.Fatalf("unexpected zones: %#v", zones)
	}
}

type fakeAPIGateway struct{}

func (fakeAPIGateway) GetDomainNames(_ context.Context, in *apigatewayv2.GetDomainNamesInput, _ ...func(*apigatewayv2.Options)) (*apigatewayv2.GetDomainNamesOutput, error) {
	if in.NextToken == nil {
		return &apigatewayv2.GetDomainNamesOutput{
			Items: []apigwtypes.DomainName{{
				DomainName: aws.String("edge.example.com"),
				DomainNameConfigurations: []apigwtypes.DomainNameConfiguration{{
					EndpointType: apigwtypes.EndpointTypeEdge,
				}},
			}},
			NextToken: aws.String("next"),
		}, nil
	}
	return &apigatewayv2.GetDomainNamesOutput{
		Items: []apigwtypes.DomainName{{
			DomainName: aws.String("keys.example.com"),
			DomainNameConfigurations: []apigwtypes.DomainNameConfiguration{{
				EndpointType: apigwtypes.EndpointTypeRegional,
			}},
		}},
	}, nil
}

func TestListDomainNames(t *testing.T) {
	domains, err := (awsDomainClient{client: fakeAPIGateway{}}).ListDomainNames(context.Background())
	if err != nil {
		t.Fatalf("list domains: %v", err)
	}
	if len(domains) != 2 {
		t.Fatalf("unexpected domains: %#v", domains)
	}
	if domains[0].Regional() || !domains[1].Regional() {
		t.Fatalf("unexpected endpoint types: %#v", domains)
	}
}
