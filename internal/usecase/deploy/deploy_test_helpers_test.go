// Where: internal/usecase/deploy/deploy_test_helpers_test.go
// What: In-memory AWS fakes for deployment workflow tests.
// Why: Exercise every phase without network access.
package deploy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/poruru-code/akm-cli/internal/domain/attr"
	"github.com/poruru-code/akm-cli/internal/domain/capability"
	"github.com/poruru-code/akm-cli/internal/domain/params"
	"github.com/poruru-code/akm-cli/internal/infra/probe"
	"github.com/poruru-code/akm-cli/internal/infra/ui"
	"github.com/poruru-code/akm-cli/internal/provisioner"
)

type fakeAWS struct {
	calls []string

	tables  []string
	items   map[string]map[string]map[string]attr.Attribute
	putErr  error
	buckets []string
	created []string
	objects map[string][]byte

	stacks      []provisioner.CreateStackInput
	waitErr     error
	deleted     []string
	gatewayID   string
	describeErr error

	domains  []provisioner.DomainName
	identity provisioner.Identity
}

func newFakeAWS() *fakeAWS {
	return &fakeAWS{
		items:     map[string]map[string]map[string]attr.Attribute{},
		objects:   map[string][]byte{},
		gatewayID: "abc123",
		identity:  provisioner.Identity{Account: "123456789012", ARN: "arn:aws:iam::123456789012:user/ops"},
	}
}

func (f *fakeAWS) clients() provisioner.Clients {
	return provisioner.Clients{
		Region:   "eu-west-1",
		DynamoDB: f,
		S3:       f,
		Stacks:   f,
		Domains:  f,
		Identity: f,
	}
}

func (f *fakeAWS) ListTables(context.Context) ([]string, error) {
	f.calls = append(f.calls, "ListTables")
	return f.tables, nil
}

func (f *fakeAWS) PutItem(_ context.Context, table string, item map[string]attr.Attribute) (provisioner.PutItemResult, error) {
	f.calls = append(f.calls, "PutItem")
	if f.putErr != nil {
		return provisioner.PutItemResult{}, f.putErr
	}
	if f.items[table] == nil {
		f.items[table] = map[string]map[string]attr.Attribute{}
	}
	f.items[table][item[capability.FieldAPIKey].S] = item
	return provisioner.PutItemResult{ConsumedCapacity: 1}, nil
}

func (f *fakeAWS) GetItem(_ context.Context, table string, key map[string]attr.Attribute) (map[string]attr.Attribute, error) {
	f.calls = append(f.calls, "GetItem")
	item, ok := f.items[table][key[capability.FieldAPIKey].S]
	if !ok {
		return nil, provisioner.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeAWS) ListBuckets(context.Context) ([]string, error) {
	f.calls = append(f.calls, "ListBuckets")
	return f.buckets, nil
}

func (f *fakeAWS) CreateBucket(_ context.Context, name, _ string) error {
	f.calls = append(f.calls, "CreateBucket")
	f.created = append(f.created, name)
	f.buckets = append(f.buckets, name)
	return nil
}

func (f *fakeAWS) PutObject(_ context.Context, input provisioner.PutObjectInput) (string, error) {
	f.calls = append(f.calls, "PutObject")
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return "", err
	}
	f.objects[input.Key] = body
	return fmt.Sprintf("\"etag-%d\"", len(f.objects)), nil
}

func (f *fakeAWS) CreateStack(_ context.Context, input provisioner.CreateStackInput) (string, error) {
	f.calls = append(f.calls, "CreateStack")
	f.stacks = append(f.stacks, input)
	return "arn:aws:cloudformation:eu-west-1:123456789012:stack/" + input.Name + "/1", nil
}

func (f *fakeAWS) WaitCreateComplete(context.Context, string, time.Duration) error {
	f.calls = append(f.calls, "WaitCreateComplete")
	return f.waitErr
}

func (f *fakeAWS) DescribeResource(context.Context, string, string) (string, error) {
	f.calls = append(f.calls, "DescribeResource")
	return f.gatewayID, f.describeErr
}

func (f *fakeAWS) DeleteStack(_ context.Context, stack string) error {
	f.calls = append(f.calls, "DeleteStack")
	f.deleted = append(f.deleted, stack)
	return nil
}

func (f *fakeAWS) ListDomainNames(context.Context) ([]provisioner.DomainName, error) {
	f.calls = append(f.calls, "ListDomainNames")
	return f.domains, nil
}

func (f *fakeAWS) CallerIdentity(context.Context) (provisioner.Identity, error) {
	f.calls = append(f.calls, "CallerIdentity")
	return f.identity, nil
}

type fakeProber struct {
	status int
	body   string
	urls   []string
	keys   []string
}

func (p *fakeProber) Get(_ context.Context, url, key string) (probe.Response, error) {
	p.urls = append(p.urls, url)
	p.keys = append(p.keys, key)
	return probe.Response{URL: url, StatusCode: p.status, Body: p.body}, nil
}

type fakeResolver struct {
	addrs []string
	err   error
}

func (r fakeResolver) Resolve(context.Context, string) ([]string, error) {
	return r.addrs, r.err
}

type recordingUI struct {
	lines []string
}

func (r *recordingUI) Info(msg string)    { r.lines = append(r.lines, "info: "+msg) }
func (r *recordingUI) Warn(msg string)    { r.lines = append(r.lines, "warn: "+msg) }
func (r *recordingUI) Success(msg string) { r.lines = append(r.lines, "ok: "+msg) }
func (r *recordingUI) Step(index, total int, title string) {
	r.lines = append(r.lines, fmt.Sprintf("step %d/%d: %s", index, total, title))
}
func (r *recordingUI) Block(_, title string, _ []ui.KeyValue) { r.lines = append(r.lines, "block: "+title) }

var keyBytes = bytes.Repeat([]byte{0xfb}, 30)

type harness struct {
	aws      *fakeAWS
	prober   *fakeProber
	ui       *recordingUI
	workflow Workflow
	request  Request
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	pkg := filepath.Join(dir, "svc.jar")
	require.NoError(t, os.WriteFile(pkg, []byte("jar-bytes"), 0o600))

	aws := newFakeAWS()
	aws.domains = []provisioner.DomainName{{Name: "beta.keys.example.com", EndpointTypes: []string{"REGIONAL"}}}
	prober := &fakeProber{status: 200, body: `{"apiKey":"k"}`}
	rec := &recordingUI{}

	w := NewDeployWorkflow(aws.clients(), rec, nil, prober, fakeResolver{addrs: []string{"192.0.2.1"}})
	w.Random = bytes.NewReader(keyBytes)
	w.NewToken = func() string { return "token-1" }

	d := params.DefaultDeployment()
	d.Region = "eu-west-1"
	d.Bucket = "deploy-bucket"
	d.DomainName = "keys.example.com"
	d.PackagePath = pkg
	d.OutputDir = filepath.Join(dir, "out")

	return &harness{
		aws:      aws,
		prober:   prober,
		ui:       rec,
		workflow: w,
		request: Request{
			Deployment:   d,
			Settings:     params.DefaultSettings(),
			Capabilities: capability.Set{"custom.capability": attr.Map{"limit": attr.Int(5)}},
		},
	}
}

func (h *harness) run(t *testing.T) (Result, error) {
	t.Helper()
	return h.workflow.Run(context.Background(), h.request)
}
