// Where: internal/provisioner/stacks.go
// What: CloudFormation adapter for stack creation, waiting and lookup.
// Why: Stack lifecycle calls are the long-running part of a deployment.
package provisioner

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// DefaultMaxWait bounds the create-complete waiter when no limit is configured.
const DefaultMaxWait = 24 * time.Hour

type cloudFormationSDK interface {
	CreateStack(ctx context.Context, params *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	DescribeStackResource(ctx context.Context, params *cloudformation.DescribeStackResourceInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackResourceOutput, error)
	DeleteStack(ctx context.Context, params *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
}

type stackWaiter interface {
	Wait(ctx context.Context, params *cloudformation.DescribeStacksInput, maxWaitDur time.Duration, optFns ...func(*cloudformation.StackCreateCompleteWaiterOptions)) error
}

type awsStackClient struct {
	client cloudFormationSDK
	waiter stackWaiter
}

func newAWSStackClient(client cloudFormationSDK) awsStackClient {
	return awsStackClient{
		client: client,
		waiter: cloudformation.NewStackCreateCompleteWaiter(client),
	}
}

func (c awsStackClient) CreateStack(ctx context.Context, input CreateStackInput) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("cloudformation client is nil")
	}
	req := &cloudformation.CreateStackInput{StackName: aws.String(input.Name)}
	switch {
	case input.TemplateURL != "":
		req.TemplateURL = aws.String(input.TemplateURL)
	case input.TemplateBody != "":
		req.TemplateBody = aws.String(input.TemplateBody)
	default:
		return "", fmt.Errorf("stack %s: template url or body is required", input.Name)
	}
	if input.IAM {
		req.Capabilities = []cfntypes.Capability{cfntypes.CapabilityCapabilityIam}
	}
	if input.Token != "" {
		req.ClientRequestToken = aws.String(input.Token)
	}
	out, err := c.client.CreateStack(ctx, req)
	if err != nil {
		if hasErrorCode(err, "AlreadyExistsException") {
			return "", fmt.Errorf("%w: %s", ErrStackExists, input.Name)
		}
		return "", fmt.Errorf("create stack %s: %w", input.Name, err)
	}
	return aws.ToString(out.StackId), nil
}

func (c awsStackClient) WaitCreateComplete(ctx context.Context, stack string, maxWait time.Duration) error {
	if c.client == nil || c.waiter == nil {
		return fmt.Errorf("cloudformation client is nil")
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	err := c.waiter.Wait(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(stack)}, maxWait)
	if err == nil {
		return nil
	}
	status, reason := c.stackStatus(ctx, stack)
	if status == "" {
		return fmt.Errorf("wait for stack %s: %w", stack, err)
	}
	return fmt.Errorf("%w: stack %s is %s %s: %w", ErrStackFailed, stack, status, reason, err)
}

func (c awsStackClient) stackStatus(ctx context.Context, stack string) (string, string) {
	out, err := c.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(stack)})
	if err != nil || len(out.Stacks) == 0 {
		return "", ""
	}
	return string(out.Stacks[0].StackStatus), aws.ToString(out.Stacks[0].StackStatusReason)
}

func (c awsStackClient) DescribeResource(ctx context.Context, stack, logicalID string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("cloudformation client is nil")
	}
	out, err := c.client.DescribeStackResource(ctx, &cloudformation.DescribeStackResourceInput{
		StackName:         aws.String(stack),
		LogicalResourceId: aws.String(logicalID),
	})
	if err != nil {
		return "", fmt.Errorf("describe %s in stack %s: %w", logicalID, stack, err)
	}
	if out.StackResourceDetail == nil || aws.ToString(out.StackResourceDetail.PhysicalResourceId) == "" {
		return "", fmt.Errorf("resource %s in stack %s has no physical id", logicalID, stack)
	}
	return aws.ToString(out.StackResourceDetail.PhysicalResourceId), nil
}

func (c awsStackClient) DeleteStack(ctx context.Context, stack string) error {
	if c.client == nil {
		return fmt.Errorf("cloudformation client is nil")
	}
	if _, err := c.client.DeleteStack(ctx, &cloudformation.DeleteStackInput{StackName: aws.String(stack)}); err != nil {
		return fmt.Errorf("delete stack %s: %w", stack, err)
	}
	return nil
}
