// Where: internal/infra/probe/dns.go
// What: DNS lookup of the custom domain before probing it over HTTPS.
// Why: A missing alias record explains a failing public probe better than a TLS error.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// DefaultResolvConf is read to find the system nameserver.
const DefaultResolvConf = "/etc/resolv.conf"

const fallbackNameserver = "8.8.8.8:53"

var ErrNoAddresses = errors.New("no address records")

// DNSResolver queries a single nameserver for A records.
type DNSResolver struct {
	Server string
	client *dns.Client
}

// NewDNSResolver uses server when set, else the first nameserver of resolvConf.
func NewDNSResolver(server, resolvConf string) *DNSResolver {
	if server == "" {
		server = systemNameserver(resolvConf)
	}
	return &DNSResolver{
		Server: server,
		client: &dns.Client{Net: "udp", Timeout: 5 * time.Second},
	}
}

func systemNameserver(resolvConf string) string {
	if resolvConf == "" {
		resolvConf = DefaultResolvConf
	}
	cfg, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil || len(cfg.Servers) == 0 {
		return fallbackNameserver
	}
	return net.JoinHostPort(cfg.Servers[0], cfg.Port)
}

// Resolve returns the IPv4 addresses of domain, following CNAME answers in the response.
func (r *DNSResolver) Resolve(ctx context.Context, domain string) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	msg.RecursionDesired = true

	in, _, err := r.client.ExchangeContext(ctx, msg, r.Server)
	if err != nil {
		return nil, fmt.Errorf("resolve %s via %s: %w", domain, r.Server, err)
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("resolve %s: %s", domain, dns.RcodeToString[in.Rcode])
	}

	addrs := make([]string, 0, len(in.Answer))
	for _, answer := range in.Answer {
		if a, ok := answer.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("resolve %s: %w", domain, ErrNoAddresses)
	}
	return addrs, nil
}
