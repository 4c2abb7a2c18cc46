package interfaces

import (
	"context"

	"github.com/m-mizutani/herald/pkg/domain/model"
)

// TriggerUseCase defines the interface for trigger event handling
type TriggerUseCase interface {
	// HandleEvent evaluates a trigger event and dispatches the resulting
	// build. It returns the decision taken for the event.
	HandleEvent(ctx context.Context, event *model.TriggerEvent) (*model.PublishDecision, error)
}

// PublishUseCase defines operations for running the build pipeline
type PublishUseCase interface {
	// Run fetches the source at the event commit, renders the site and,
	// when the decision requires it, deploys the output
	Run(ctx context.Context, req *model.BuildRequest) (*model.BuildResult, error)
}
