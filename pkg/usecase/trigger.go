package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/herald/pkg/domain/interfaces"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/utils/async"
)

type triggerUseCase struct {
	rules     model.PublishRules
	publishUC interfaces.PublishUseCase
}

// NewTrigger creates a new instance of TriggerUseCase. publishUC may be nil,
// in which case decisions are taken but no build is dispatched (eval mode).
func NewTrigger(rules model.PublishRules, publishUC interfaces.PublishUseCase) interfaces.TriggerUseCase {
	return &triggerUseCase{
		rules:     rules,
		publishUC: publishUC,
	}
}

// HandleEvent evaluates a trigger event and dispatches the resulting build.
// The build runs detached from the request; the decision is returned
// immediately so the webhook can acknowledge the delivery.
func (uc *triggerUseCase) HandleEvent(ctx context.Context, event *model.TriggerEvent) (*model.PublishDecision, error) {
	logger := ctxlog.From(ctx)

	decision, err := Evaluate(event, uc.rules)
	if err != nil {
		return nil, err
	}

	logger.Info("Evaluated trigger event",
		"id", event.ID,
		"kind", event.Kind,
		"branch", event.Branch,
		"repository", event.Repository,
		"mode", decision.Mode,
		"deploy_branch", decision.DeployBranch,
	)

	if uc.publishUC == nil {
		return decision, nil
	}

	req := &model.BuildRequest{
		RunID:    uuid.NewString(),
		Event:    event,
		Decision: decision,
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		result, err := uc.publishUC.Run(ctx, req)
		if err != nil {
			return err
		}

		ctxlog.From(ctx).Info("Build run finished",
			"run_id", req.RunID,
			"mode", decision.Mode,
			"deployed", result.Deployed,
			"file_count", result.FileCount,
			"total_size", result.Size,
			"duration", result.Duration,
		)
		return nil
	})

	return decision, nil
}
