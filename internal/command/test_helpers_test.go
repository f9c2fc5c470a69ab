// Where: internal/command/test_helpers_test.go
// What: Fakes shared by command tests.
// Why: Run full command paths without AWS or a terminal.
package command

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/poruru-code/akm-cli/internal/domain/attr"
	"github.com/poruru-code/akm-cli/internal/infra/interaction"
	"github.com/poruru-code/akm-cli/internal/infra/probe"
	"github.com/poruru-code/akm-cli/internal/provisioner"
	"github.com/poruru-code/akm-cli/internal/usecase/deploy"
)

type fakePrompter struct {
	confirm   bool
	inputs    map[string]string
	confirms  []string
	selectVal string
}

func (p *fakePrompter) Input(title string, suggestions []string) (string, error) {
	if v, ok := p.inputs[title]; ok {
		return v, nil
	}
	if len(suggestions) > 0 {
		return suggestions[0], nil
	}
	return "", nil
}

func (p *fakePrompter) SelectValue(string, []interaction.SelectOption) (string, error) {
	return p.selectVal, nil
}

func (p *fakePrompter) Confirm(title string) (bool, error) {
	p.confirms = append(p.confirms, title)
	return p.confirm, nil
}

type fakeAWS struct {
	options provisioner.Options
	tables  []string
	items   map[string]map[string]attr.Attribute
	objects []string
	stacks  []provisioner.CreateStackInput
	zones   []provisioner.HostedZone
}

func (f *fakeAWS) factory(_ context.Context, opts provisioner.Options) (provisioner.Clients, error) {
	f.options = opts
	region := opts.Region
	if region == "" {
		region = "us-west-2"
	}
	return provisioner.Clients{
		Region:      region,
		DynamoDB:    f,
		S3:          f,
		Stacks:      f,
		Domains:     f,
		HostedZones: f,
		Identity:    f,
	}, nil
}

func (f *fakeAWS) ListTables(context.Context) ([]string, error) { return f.tables, nil }

func (f *fakeAWS) PutItem(_ context.Context, _ string, item map[string]attr.Attribute) (provisioner.PutItemResult, error) {
	f.items = map[string]map[string]attr.Attribute{item["apiKey"].S: item}
	return provisioner.PutItemResult{ConsumedCapacity: 1}, nil
}

func (f *fakeAWS) GetItem(_ context.Context, _ string, key map[string]attr.Attribute) (map[string]attr.Attribute, error) {
	return f.items[key["apiKey"].S], nil
}

func (f *fakeAWS) ListBuckets(context.Context) ([]string, error) { return []string{"com-zynaptic-aws-deployment"}, nil }

func (f *fakeAWS) CreateBucket(context.Context, string, string) error { return nil }

func (f *fakeAWS) PutObject(_ context.Context, input provisioner.PutObjectInput) (string, error) {
	if _, err := io.Copy(io.Discard, input.Body); err != nil {
		return "", err
	}
	f.objects = append(f.objects, input.Key)
	return `"etag"`, nil
}

func (f *fakeAWS) CreateStack(_ context.Context, input provisioner.CreateStackInput) (string, error) {
	f.stacks = append(f.stacks, input)
	return "stack-id", nil
}

func (f *fakeAWS) WaitCreateComplete(context.Context, string, time.Duration) error { return nil }

func (f *fakeAWS) DescribeResource(context.Context, string, string) (string, error) {
	return "api123", nil
}

func (f *fakeAWS) DeleteStack(context.Context, string) error { return nil }

func (f *fakeAWS) ListDomainNames(context.Context) ([]provisioner.DomainName, error) { return nil, nil }

func (f *fakeAWS) ListHostedZones(context.Context) ([]provisioner.HostedZone, error) {
	return f.zones, nil
}

func (f *fakeAWS) CallerIdentity(context.Context) (provisioner.Identity, error) {
	return provisioner.Identity{Account: "123456789012"}, nil
}

type okProber struct{}

func (okProber) Get(_ context.Context, url, _ string) (probe.Response, error) {
	return probe.Response{URL: url, StatusCode: 200, Body: "{}"}, nil
}

type testEnv struct {
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	aws      *fakeAWS
	prompter *fakePrompter
	deps     Dependencies
}

func newTestEnv(t *testing.T, dir string, env map[string]string) *testEnv {
	t.Helper()
	e := &testEnv{
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
		aws:      &fakeAWS{},
		prompter: &fakePrompter{confirm: true},
	}
	e.deps = Dependencies{
		Out:        e.out,
		ErrOut:     e.errOut,
		Prompter:   e.prompter,
		NewClients: e.aws.factory,
		NewProber: func(string, *slog.Logger) deploy.Prober {
			return okProber{}
		},
		NewResolver: func() deploy.Resolver { return nil },
		Random:      bytes.NewReader(bytes.Repeat([]byte{7}, 64)),
		Getwd:       func() (string, error) { return dir, nil },
		Getenv:      func(key string) string { return env[key] },
	}
	return e
}
