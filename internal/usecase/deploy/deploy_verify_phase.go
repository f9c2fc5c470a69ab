// Where: internal/usecase/deploy/deploy_verify_phase.go
// What: Advisory verification of a completed deployment.
// Why: Operators want proof the root key works, but a slow DNS or gateway rollout is not a failed deploy.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/poruru-code/akm-cli/internal/domain/attr"
	"github.com/poruru-code/akm-cli/internal/domain/capability"
	"github.com/poruru-code/akm-cli/internal/infra/stackgen"
	"github.com/poruru-code/akm-cli/internal/infra/ui"
)

// GatewayBaseURL is the invoke URL of a REST API stage.
func GatewayBaseURL(apiID, region, stage string) string {
	return fmt.Sprintf("https://%s.execute-api.%s.amazonaws.com/%s", apiID, region, stage)
}

// PublicBaseURL is the base URL of the API behind its custom domain.
func PublicBaseURL(domain, basePath string) string {
	basePath = strings.Trim(basePath, "/")
	if basePath == "" {
		return "https://" + domain
	}
	return "https://" + domain + "/" + basePath
}

// verify never fails the run. Every problem becomes a warning.
func (w Workflow) verify(ctx context.Context, state *runState) error {
	w.resolveEndpoints(ctx, state)
	w.readBack(ctx, state)
	w.resolveDomain(ctx, state)
	w.probe(ctx, state)
	return nil
}

func (w Workflow) resolveEndpoints(ctx context.Context, state *runState) {
	d := state.deployment
	s := state.req.Settings
	add := func(name, base string) {
		state.bases = append(state.bases, base)
		state.result.Endpoints = append(state.result.Endpoints, ui.Endpoint{
			Name:      name,
			CreateURL: base + s.KeyCreatePath,
			AccessURL: base + s.KeyAccessPath,
		})
	}

	apiID, err := w.Clients.Stacks.DescribeResource(ctx, d.StackName, stackgen.GatewayID)
	if err != nil {
		state.warn(w, "describe %s in %s: %v", stackgen.GatewayID, d.StackName, err)
	} else {
		add("gateway", GatewayBaseURL(apiID, d.Region, d.Stage))
	}
	if d.HasDomain() {
		add("public", PublicBaseURL(d.DomainName, s.DomainBasePath))
	}
}

func (w Workflow) readBack(ctx context.Context, state *runState) {
	record := state.result.Record
	item, err := w.Clients.DynamoDB.GetItem(ctx, state.deployment.TableName, record.Key())
	if err != nil {
		state.warn(w, "read back root key record: %v", err)
		return
	}
	stored, ok := item[capability.FieldCapabilities]
	if !ok {
		state.warn(w, "stored root key record has no %s", capability.FieldCapabilities)
		return
	}
	value, err := attr.Decode(stored)
	if err != nil {
		state.warn(w, "decode stored capability set: %v", err)
		return
	}
	set, err := capability.ParseSet(value)
	if err != nil {
		state.warn(w, "parse stored capability set: %v", err)
		return
	}
	if got, want := set.Names(), record.Capabilities.Names(); !slices.Equal(got, want) {
		state.warn(w, "stored capabilities %v differ from written %v", got, want)
	}
}

func (w Workflow) resolveDomain(ctx context.Context, state *runState) {
	d := state.deployment
	if !d.HasDomain() || w.Resolver == nil {
		return
	}
	addrs, err := w.Resolver.Resolve(ctx, d.DomainName)
	if err != nil {
		state.warn(w, "custom domain %s does not resolve yet: %v", d.DomainName, err)
		return
	}
	w.logger().Info("custom domain resolved", "domain", d.DomainName, "addresses", addrs)
}

func (w Workflow) probe(ctx context.Context, state *runState) {
	if w.Prober == nil {
		return
	}
	key := state.result.Record.APIKey
	path := state.req.Settings.AccessPathFor(key)
	for _, base := range state.bases {
		url := base + path
		resp, err := w.Prober.Get(ctx, url, key)
		if err != nil {
			state.warn(w, "probe %s: %v", url, err)
			continue
		}
		state.result.Probes = append(state.result.Probes, ui.Probe{
			URL:    url,
			Status: resp.StatusCode,
			Body:   prettyBody(resp.Body),
		})
		if !resp.OK() {
			state.warn(w, "GET %s returned status %d", url, resp.StatusCode)
		}
	}
}

func prettyBody(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}
