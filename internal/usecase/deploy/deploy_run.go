// Where: internal/usecase/deploy/deploy_run.go
// What: Workflow.Run orchestration skeleton.
// Why: Keep the phase order visible while details live in dedicated files.
package deploy

import (
	"context"
	"fmt"

	"github.com/poruru-code/akm-cli/internal/domain/params"
	"github.com/poruru-code/akm-cli/internal/provisioner"
)

// runState carries values between phases of a single run.
type runState struct {
	req        Request
	deployment params.Deployment
	template   []byte
	bases      []string
	result     Result
}

func (r *runState) warn(w Workflow, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.result.Warnings = append(r.result.Warnings, msg)
	w.logger().Warn("verification warning", "detail", msg)
	if w.UserInterface != nil {
		w.UserInterface.Warn(msg)
	}
}

type step struct {
	title   string
	reaches Phase
	run     func(context.Context, *runState) error
}

// Run executes the deployment. On failure the returned error is a *PhaseError and the
// Result reflects everything done before the failure.
func (w Workflow) Run(ctx context.Context, req Request) (Result, error) {
	if err := w.checkConfigured(); err != nil {
		return Result{Phase: PhaseStart}, &PhaseError{Phase: PhaseStart, Err: err}
	}
	if req.MaxWait <= 0 {
		req.MaxWait = provisioner.DefaultMaxWait
	}
	d := req.Deployment.ForStage(req.Settings.ProductionStage)
	state := &runState{
		req:        req,
		deployment: d,
		result:     Result{Phase: PhaseStart, Deployment: d},
	}
	log := w.logger().With("stack", d.StackName, "stage", d.Stage)

	steps := []step{
		{"Checking preconditions", PhasePreconditionChecked, w.checkPreconditions},
		{"Uploading artifacts", PhaseArtifactUploaded, w.uploadArtifacts},
		{"Submitting stack template", PhaseTemplateSubmitted, w.submitStack},
		{"Waiting for stack creation", PhaseStackReady, w.waitStack},
		{"Writing root key record", PhaseRecordWritten, w.writeRecord},
	}
	if !req.SkipVerify {
		steps = append(steps, step{"Verifying deployment", PhaseVerified, w.verify})
	}

	for i, s := range steps {
		if w.UserInterface != nil {
			w.UserInterface.Step(i+1, len(steps), s.title)
		}
		log.Debug("phase start", "step", s.title, "from", state.result.Phase)
		if err := s.run(ctx, state); err != nil {
			log.Error("phase failed", "step", s.title, "phase", state.result.Phase, "error", err)
			return state.result, &PhaseError{Phase: state.result.Phase, Err: err}
		}
		state.result.Phase = s.reaches
		log.Info("phase reached", "phase", s.reaches)
	}

	if req.SkipVerify {
		w.resolveEndpoints(ctx, state)
	}
	return state.result, nil
}
