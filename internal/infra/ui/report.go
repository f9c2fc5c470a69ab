// Where: internal/infra/ui/report.go
// What: Final deployment report rendering.
// Why: Operators need the endpoint URLs and the root key in one readable summary.
package ui

import (
	"embed"
	"fmt"
	"io"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateCache sync.Map

// Endpoint is one base URL family of the deployed API.
type Endpoint struct {
	Name      string
	CreateURL string
	AccessURL string
}

// Probe is one verification request and its answer.
type Probe struct {
	URL    string
	Status int
	Body   string
}

// Upload is one object written to the deployment bucket and its S3 tag.
type Upload struct {
	Key  string
	ETag string
}

type Report struct {
	Stage        string
	Region       string
	Account      string
	StackName    string
	StackID      string
	TableName    string
	Bucket       string
	Uploads      []Upload
	Endpoints    []Endpoint
	Capabilities []string
	RootKey      string
	Probes       []Probe
	Warnings     []string
}

// DNSReport summarizes a custom domain registration.
type DNSReport struct {
	DomainName   string
	HostedZoneID string
	StackName    string
	StackID      string
	TemplatePath string
}

// RenderReport writes the deployment summary.
func RenderReport(w io.Writer, r Report) error {
	return render(w, "report.tmpl", r)
}

// RenderDNSReport writes the DNS registration summary.
func RenderDNSReport(w io.Writer, r DNSReport) error {
	return render(w, "dns_report.tmpl", r)
}

func render(w io.Writer, name string, data any) error {
	tmpl, err := loadTemplate(name)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func loadTemplate(name string) (*template.Template, error) {
	if value, ok := templateCache.Load(name); ok {
		return value.(*template.Template), nil
	}
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, err
	}
	templateCache.Store(name, tmpl)
	return tmpl, nil
}
