// Where: internal/usecase/dnssetup/zones.go
// What: Hosted zone matching for a custom domain.
// Why: The alias record must be created in the zone that owns the domain.
package dnssetup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poruru-code/akm-cli/internal/provisioner"
)

var (
	ErrHostedZoneNotFound  = errors.New("no hosted zone matches domain")
	ErrAmbiguousHostedZone = errors.New("several hosted zones match domain")
)

// MatchHostedZones returns the zones with the longest name that is a parent of domain.
// Public zones win over private zones of the same name. The domain itself must be a
// strict subdomain of the zone.
func MatchHostedZones(zones []provisioner.HostedZone, domain string) []provisioner.HostedZone {
	target := fqdn(domain)
	var best []provisioner.HostedZone
	bestLen := 0
	for _, zone := range zones {
		name := fqdn(zone.Name)
		if name == "." || !strings.HasSuffix(target, "."+name) {
			continue
		}
		zone.ID = zoneID(zone.ID)
		switch {
		case len(name) > bestLen:
			best = []provisioner.HostedZone{zone}
			bestLen = len(name)
		case len(name) == bestLen:
			best = append(best, zone)
		}
	}

	public := best[:0:0]
	for _, zone := range best {
		if !zone.Private {
			public = append(public, zone)
		}
	}
	if len(public) > 0 {
		return public
	}
	return best
}

// ResolveHostedZone returns the single zone owning domain.
func ResolveHostedZone(zones []provisioner.HostedZone, domain string) (provisioner.HostedZone, error) {
	matches := MatchHostedZones(zones, domain)
	switch len(matches) {
	case 0:
		return provisioner.HostedZone{}, fmt.Errorf("%w: %s", ErrHostedZoneNotFound, domain)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, 0, len(matches))
		for _, zone := range matches {
			ids = append(ids, zone.ID)
		}
		return provisioner.HostedZone{}, fmt.Errorf("%w: %s (%s)", ErrAmbiguousHostedZone, domain, strings.Join(ids, ", "))
	}
}

func fqdn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, ".") + "."
}

func zoneID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
