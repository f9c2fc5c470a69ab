// Where: internal/provisioner/domains.go
// What: API Gateway domain, Route 53 hosted zone and STS identity adapters.
// Why: Custom domain preconditions and DNS registration read account-level state.
package provisioner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type apiGatewaySDK interface {
	GetDomainNames(ctx context.Context, params *apigatewayv2.GetDomainNamesInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetDomainNamesOutput, error)
}

type awsDomainClient struct {
	client apiGatewaySDK
}

func (c awsDomainClient) ListDomainNames(ctx context.Context) ([]DomainName, error) {
	if c.client == nil {
		return nil, fmt.Errorf("apigateway client is nil")
	}
	var out []DomainName
	input := &apigatewayv2.GetDomainNamesInput{}
	for {
		page, err := c.client.GetDomainNames(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("get domain names: %w", err)
		}
		for _, item := range page.Items {
			domain := DomainName{Name: aws.ToString(item.DomainName)}
			for _, cfg := range item.DomainNameConfigurations {
				domain.EndpointTypes = append(domain.EndpointTypes, string(cfg.EndpointType))
			}
			out = append(out, domain)
		}
		if aws.ToString(page.NextToken) == "" {
			return out, nil
		}
		input = &apigatewayv2.GetDomainNamesInput{NextToken: page.NextToken}
	}
}

type route53SDK interface {
	ListHostedZones(ctx context.Context, params *route53.ListHostedZonesInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error)
}

type awsHostedZoneClient struct {
	client route53SDK
}

func (c awsHostedZoneClient) ListHostedZones(ctx context.Context) ([]HostedZone, error) {
	if c.client == nil {
		return nil, fmt.Errorf("route53 client is nil")
	}
	var out []HostedZone
	input := &route53.ListHostedZonesInput{}
	for {
		page, err := c.client.ListHostedZones(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list hosted zones: %w", err)
		}
		for _, zone := range page.HostedZones {
			entry := HostedZone{
				ID:   strings.TrimPrefix(aws.ToString(zone.Id), "/hostedzone/"),
				Name: aws.ToString(zone.Name),
			}
			if zone.Config != nil {
				entry.Private = zone.Config.PrivateZone
			}
			out = append(out, entry)
		}
		if !page.IsTruncated || aws.ToString(page.NextMarker) == "" {
			return out, nil
		}
		input = &route53.ListHostedZonesInput{Marker: page.NextMarker}
	}
}

type stsSDK interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type awsIdentityClient struct {
	client stsSDK
}

func (c awsIdentityClient) CallerIdentity(ctx context.Context) (Identity, error) {
	if c.client == nil {
		return Identity{}, fmt.Errorf("sts client is nil")
	}
	out, err := c.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("get caller identity: %w", err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
