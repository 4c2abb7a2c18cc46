package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

// Evaluate maps a trigger event to exactly one publish decision. It is pure
// and total: identical inputs always yield identical outputs and no I/O is
// performed. A push to the publishing branch deploys to the deploy branch;
// every other recognized event (any review request, or a push to another
// branch) builds without publishing. Review requests can never deploy.
//
// Invalid inputs fail instead of falling back to either mode, so a
// malformed event can neither skip a deployment nor cause one.
func Evaluate(event *model.TriggerEvent, rules model.PublishRules) (*model.PublishDecision, error) {
	if event.Branch == "" {
		return nil, goerr.Wrap(types.ErrInvalidBranch, "origin branch is empty",
			goerr.V("event_id", event.ID),
			goerr.V("kind", event.Kind),
		)
	}

	switch event.Kind {
	case model.EventKindPush:
		if event.Branch == rules.PublishBranch {
			return &model.PublishDecision{
				Mode:         model.ModeBuildAndDeploy,
				DeployBranch: rules.DeployBranch,
			}, nil
		}
		return &model.PublishDecision{Mode: model.ModeBuildOnly}, nil

	case model.EventKindReviewRequest:
		return &model.PublishDecision{Mode: model.ModeBuildOnly}, nil

	default:
		return nil, goerr.Wrap(types.ErrInvalidEventKind, "unrecognized event kind",
			goerr.V("event_id", event.ID),
			goerr.V("kind", event.Kind),
		)
	}
}
