// Where: internal/usecase/deploy/deploy_preconditions.go
// What: Precondition phase of the deployment.
// Why: Refuse to deploy over an existing key table or onto an unusable custom domain.
package deploy

import (
	"context"
	"fmt"

	"github.com/poruru-code/akm-cli/internal/infra/stackgen"
	"github.com/poruru-code/akm-cli/internal/provisioner"
)

func (w Workflow) checkPreconditions(ctx context.Context, state *runState) error {
	d := state.deployment
	if err := d.Validate(true); err != nil {
		return err
	}
	if err := state.req.Settings.Validate(); err != nil {
		return err
	}

	tmpl, err := stackgen.BuildServiceTemplate(d, state.req.Settings)
	if err != nil {
		return fmt.Errorf("build service template: %w", err)
	}
	body, err := stackgen.Render(tmpl, true)
	if err != nil {
		return fmt.Errorf("render service template: %w", err)
	}
	state.template = body

	if w.Clients.Identity != nil {
		identity, err := w.Clients.Identity.CallerIdentity(ctx)
		if err != nil {
			return fmt.Errorf("resolve caller identity: %w", err)
		}
		state.result.Identity = identity
		w.logger().Info("caller identity", "account", identity.Account, "arn", identity.ARN)
	}

	exists, err := provisioner.TableExists(ctx, w.Clients.DynamoDB, d.TableName)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTableExists, d.TableName)
	}

	if d.HasDomain() {
		if err := w.checkDomain(ctx, d.DomainName); err != nil {
			return err
		}
	}

	created, err := provisioner.EnsureBucket(ctx, w.Clients.S3, d.Bucket, d.Region)
	if err != nil {
		return fmt.Errorf("ensure deployment bucket: %w", err)
	}
	state.result.BucketCreated = created
	if created && w.UserInterface != nil {
		w.UserInterface.Info(fmt.Sprintf("Created deployment bucket %s", d.Bucket))
	}
	return nil
}

func (w Workflow) checkDomain(ctx context.Context, domain string) error {
	if w.Clients.Domains == nil {
		return fmt.Errorf("check custom domain %s: %w", domain, errClientsNotConfigured)
	}
	domains, err := w.Clients.Domains.ListDomainNames(ctx)
	if err != nil {
		return fmt.Errorf("list custom domains: %w", err)
	}
	for _, candidate := range domains {
		if candidate.Name != domain {
			continue
		}
		if !candidate.Regional() {
			return fmt.Errorf("%w: %s", ErrDomainNotRegional, domain)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDomainNotRegistered, domain)
}
