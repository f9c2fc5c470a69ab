// Where: internal/usecase/deploy/deploy_stack_phase.go
// What: Stack submission and wait phases.
// Why: Stack creation is the only long-running step and the only one with optional teardown.
package deploy

import (
	"context"
	"fmt"

	"github.com/poruru-code/akm-cli/internal/provisioner"
)

func (w Workflow) submitStack(ctx context.Context, state *runState) error {
	d := state.deployment
	input := provisioner.CreateStackInput{
		Name:        d.StackName,
		TemplateURL: d.TemplateURL(),
		IAM:         true,
	}
	if w.NewToken != nil {
		input.Token = w.NewToken()
	}
	id, err := w.Clients.Stacks.CreateStack(ctx, input)
	if err != nil {
		return fmt.Errorf("create stack %s: %w", d.StackName, err)
	}
	state.result.StackID = id
	w.logger().Info("stack submitted", "stack_id", id, "template_url", input.TemplateURL)
	if w.UserInterface != nil {
		w.UserInterface.Info(fmt.Sprintf("Creating stack %s", id))
	}
	return nil
}

func (w Workflow) waitStack(ctx context.Context, state *runState) error {
	d := state.deployment
	err := w.Clients.Stacks.WaitCreateComplete(ctx, d.StackName, state.req.MaxWait)
	if err == nil {
		return nil
	}
	if !state.req.TeardownOnFailure {
		return err
	}

	if w.UserInterface != nil {
		w.UserInterface.Warn(fmt.Sprintf("Deleting failed stack %s", d.StackName))
	}
	if delErr := w.Clients.Stacks.DeleteStack(context.WithoutCancel(ctx), d.StackName); delErr != nil {
		return fmt.Errorf("%w (teardown failed: %v)", err, delErr)
	}
	state.result.TornDown = true
	return err
}
