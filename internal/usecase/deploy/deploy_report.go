// Where: internal/usecase/deploy/deploy_report.go
// What: Conversion of a run result into the operator report.
// Why: The report template only sees display-ready values.
package deploy

import (
	"github.com/poruru-code/akm-cli/internal/infra/ui"
)

// Report builds the operator summary of a successful run.
func (r Result) Report() ui.Report {
	uploads := make([]ui.Upload, 0, len(r.Uploads))
	for _, u := range r.Uploads {
		uploads = append(uploads, ui.Upload{Key: u.Key, ETag: u.ETag})
	}
	return ui.Report{
		Stage:        r.Deployment.Stage,
		Region:       r.Deployment.Region,
		Account:      r.Identity.Account,
		StackName:    r.Deployment.StackName,
		StackID:      r.StackID,
		Bucket:       r.Deployment.Bucket,
		Uploads:      uploads,
		TableName:    r.Deployment.TableName,
		Endpoints:    r.Endpoints,
		Capabilities: r.Record.Capabilities.Names(),
		RootKey:      r.Record.APIKey,
		Probes:       r.Probes,
		Warnings:     r.Warnings,
	}
}
