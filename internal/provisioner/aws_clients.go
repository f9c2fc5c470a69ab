// Where: internal/provisioner/aws_clients.go
// What: AWS SDK adapters for DynamoDB and S3.
// Why: Map provisioner types to SDK types.
package provisioner

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/poruru-code/akm-cli/internal/domain/attr"
)

// dynamoSDK is the subset of *dynamodb.Client used by the adapter.
type dynamoSDK interface {
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type awsDynamoClient struct {
	client dynamoSDK
}

func (c awsDynamoClient) ListTables(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, fmt.Errorf("dynamodb client is nil")
	}
	var names []string
	paginator := dynamodb.NewListTablesPaginator(c.client, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		names = append(names, page.TableNames...)
	}
	return names, nil
}

func (c awsDynamoClient) PutItem(ctx context.Context, table string, item map[string]attr.Attribute) (PutItemResult, error) {
	if c.client == nil {
		return PutItemResult{}, fmt.Errorf("dynamodb client is nil")
	}
	values, err := attr.ItemToDynamoDB(item)
	if err != nil {
		return PutItemResult{}, err
	}
	out, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:              aws.String(table),
		Item:                   values,
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return PutItemResult{}, fmt.Errorf("put item into %s: %w", table, err)
	}
	result := PutItemResult{}
	if out.ConsumedCapacity != nil && out.ConsumedCapacity.CapacityUnits != nil {
		result.ConsumedCapacity = *out.ConsumedCapacity.CapacityUnits
	}
	return result, nil
}

func (c awsDynamoClient) GetItem(ctx context.Context, table string, key map[string]attr.Attribute) (map[string]attr.Attribute, error) {
	if c.client == nil {
		return nil, fmt.Errorf("dynamodb client is nil")
	}
	values, err := attr.ItemToDynamoDB(key)
	if err != nil {
		return nil, err
	}
	out, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            values,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item from %s: %w", table, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrItemNotFound
	}
	return attr.ItemFromDynamoDB(out.Item)
}

// s3SDK is the subset of *s3.Client used by the adapter.
type s3SDK interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type awsS3Client struct {
	client s3SDK
}

func (c awsS3Client) ListBuckets(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	resp, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	names := make([]string, 0, len(resp.Buckets))
	for _, bucket := range resp.Buckets {
		if bucket.Name != nil {
			names = append(names, *bucket.Name)
		}
	}
	return names, nil
}

func (c awsS3Client) CreateBucket(ctx context.Context, name, region string) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.CreateBucket(ctx, createBucketInput(name, region))
	if err != nil && !hasErrorCode(err, "BucketAlreadyOwnedByYou") {
		return fmt.Errorf("create bucket %s: %w", name, err)
	}
	return nil
}

// createBucketInput omits the location constraint for us-east-1, which rejects it.
func createBucketInput(name, region string) *s3.CreateBucketInput {
	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(region),
		}
	}
	return input
}

func (c awsS3Client) PutObject(ctx context.Context, input PutObjectInput) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("s3 client is nil")
	}
	req := &s3.PutObjectInput{
		Bucket: aws.String(input.Bucket),
		Key:    aws.String(input.Key),
		Body:   input.Body,
	}
	if input.ContentType != "" {
		req.ContentType = aws.String(input.ContentType)
	}
	out, err := c.client.PutObject(ctx, req)
	if err != nil {
		return "", fmt.Errorf("put object s3://%s/%s: %w", input.Bucket, input.Key, err)
	}
	return aws.ToString(out.ETag), nil
}
