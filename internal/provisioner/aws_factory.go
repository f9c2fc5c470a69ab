// Where: internal/provisioner/aws_factory.go
// What: AWS client factory for every service the workflows call.
// Why: Encapsulate SDK configuration, optional static credentials and local endpoints.
package provisioner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Options selects region, credentials and an optional endpoint override.
// Empty fields fall back to the SDK's default configuration chain.
type Options struct {
	Region          string
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
}

var _ ClientFactory = NewClients

// NewClients loads the AWS configuration once and builds every adapter from it.
func NewClients(ctx context.Context, opts Options) (Clients, error) {
	cfg, err := loadAWSConfig(ctx, opts)
	if err != nil {
		return Clients{}, err
	}
	if cfg.Region == "" {
		return Clients{}, fmt.Errorf("aws region is not configured")
	}
	endpoint := strings.TrimSpace(opts.EndpointURL)

	return Clients{
		Region: cfg.Region,
		DynamoDB: awsDynamoClient{client: dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})},
		S3: awsS3Client{client: s3.NewFromConfig(cfg, func(o *s3.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
				o.UsePathStyle = true
			}
		})},
		Stacks: newAWSStackClient(cloudformation.NewFromConfig(cfg, func(o *cloudformation.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})),
		Domains: awsDomainClient{client: apigatewayv2.NewFromConfig(cfg, func(o *apigatewayv2.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})},
		HostedZones: awsHostedZoneClient{client: route53.NewFromConfig(cfg, func(o *route53.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})},
		Identity: awsIdentityClient{client: sts.NewFromConfig(cfg, func(o *sts.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})},
	}, nil
}

func loadAWSConfig(ctx context.Context, opts Options) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region := strings.TrimSpace(opts.Region); region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
