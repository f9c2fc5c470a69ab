// Where: internal/usecase/deploy/deploy_upload_phase.go
// What: Artifact upload phase.
// Why: The stack is created from objects in the deployment bucket.
package deploy

import (
	"bytes"
	"context"
	"fmt"

	"github.com/poruru-code/akm-cli/internal/provisioner"
)

const (
	packageContentType  = "application/octet-stream"
	templateContentType = "application/json"
)

func (w Workflow) uploadArtifacts(ctx context.Context, state *runState) error {
	d := state.deployment

	path := d.TemplatePath()
	if err := w.WriteFile(path, state.template); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	state.result.TemplatePath = path
	if w.UserInterface != nil {
		w.UserInterface.Info(fmt.Sprintf("Wrote stack template to %s", path))
	}

	pkg, err := w.OpenFile(d.PackagePath)
	if err != nil {
		return fmt.Errorf("open service package: %w", err)
	}
	defer pkg.Close()
	if err := w.upload(ctx, state, provisioner.PutObjectInput{
		Bucket:      d.Bucket,
		Key:         d.PackageKey(),
		Body:        pkg,
		ContentType: packageContentType,
	}); err != nil {
		return err
	}

	return w.upload(ctx, state, provisioner.PutObjectInput{
		Bucket:      d.Bucket,
		Key:         d.TemplateKey(),
		Body:        bytes.NewReader(state.template),
		ContentType: templateContentType,
	})
}

func (w Workflow) upload(ctx context.Context, state *runState, input provisioner.PutObjectInput) error {
	etag, err := w.Clients.S3.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", input.Bucket, input.Key, err)
	}
	state.result.Uploads = append(state.result.Uploads, Upload{Key: input.Key, ETag: etag})
	w.logger().Info("uploaded object", "bucket", input.Bucket, "key", input.Key, "etag", etag)
	if w.UserInterface != nil {
		w.UserInterface.Info(fmt.Sprintf("Uploaded %s with S3 tag %s", input.Key, etag))
	}
	return nil
}
