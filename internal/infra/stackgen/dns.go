// Where: internal/infra/stackgen/dns.go
// What: Resource graph of the custom domain stack.
// Why: The service stack maps its gateway onto a regional domain that must exist beforehand.
package stackgen

import (
	"errors"
	"strings"

	"github.com/poruru-code/akm-cli/internal/domain/cfn"
)

var errDNSInputRequired = errors.New("domain name and hosted zone id are required")

// BuildDNSTemplate declares a DNS-validated certificate, a regional custom domain and
// an alias record pointing the domain at it.
func BuildDNSTemplate(domainName, hostedZoneID string) (*cfn.Template, error) {
	domainName = strings.TrimSuffix(strings.TrimSpace(domainName), ".")
	hostedZoneID = strings.TrimSpace(hostedZoneID)
	if domainName == "" || hostedZoneID == "" {
		return nil, errDNSInputRequired
	}

	t := cfn.NewTemplate()
	resources := []struct {
		id       string
		resource cfn.Resource
	}{
		{CertificateID, cfn.Resource{
			Type: cfn.TypeCertificate,
			Properties: cfn.Properties{
				"DomainName":       domainName,
				"ValidationMethod": "DNS",
				"DomainValidationOptions": []any{
					map[string]any{"DomainName": domainName, "HostedZoneId": hostedZoneID},
				},
			},
		}},
		{CustomDomainID, cfn.Resource{
			Type:      cfn.TypeCustomDomain,
			DependsOn: []string{CertificateID},
			Properties: cfn.Properties{
				"DomainName":             domainName,
				"RegionalCertificateArn": cfn.Ref{Target: CertificateID},
				"EndpointConfiguration":  map[string]any{"Types": []any{"REGIONAL"}},
				"SecurityPolicy":         "TLS_1_2",
			},
		}},
		{DNSRecordID, cfn.Resource{
			Type:      cfn.TypeRecordSet,
			DependsOn: []string{CustomDomainID},
			Properties: cfn.Properties{
				"Name":         domainName,
				"Type":         "A",
				"HostedZoneId": hostedZoneID,
				"AliasTarget": map[string]any{
					"DNSName":      cfn.GetAtt{Target: CustomDomainID, Attribute: "RegionalDomainName"},
					"HostedZoneId": cfn.GetAtt{Target: CustomDomainID, Attribute: "RegionalHostedZoneId"},
				},
			},
		}},
	}
	for _, entry := range resources {
		if err := t.Add(entry.id, entry.resource); err != nil {
			return nil, err
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
