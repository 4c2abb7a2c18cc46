package cli

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/herald/pkg/cli/config"
	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// cmdEval evaluates a single event descriptor and prints the decision.
// It lets the same gate run inside CI jobs without the webhook server:
// a non-zero exit aborts the job instead of guessing a build mode.
func cmdEval() *cli.Command {
	var (
		siteCfg   config.Site
		eventKind string
		branch    string
	)

	flags := append(siteCfg.Flags(),
		&cli.StringFlag{
			Name:        "event-kind",
			Usage:       "Event kind (push or review_request)",
			Required:    true,
			Destination: &eventKind,
			Sources:     cli.EnvVars("HERALD_EVENT_KIND"),
		},
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Origin branch of the event",
			Destination: &branch,
			Sources:     cli.EnvVars("HERALD_EVENT_BRANCH"),
		},
	)

	return &cli.Command{
		Name:  "eval",
		Usage: "Evaluate one trigger event and print the publish decision",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := siteCfg.Load(); err != nil {
				return err
			}

			event := &model.TriggerEvent{
				Kind:       model.EventKind(eventKind),
				Branch:     branch,
				Repository: siteCfg.Repository,
				ReceivedAt: time.Now(),
			}

			decision, err := usecase.Evaluate(event, siteCfg.Rules())
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Debug("Evaluated event",
				"kind", event.Kind,
				"branch", event.Branch,
				"mode", decision.Mode,
			)

			return json.NewEncoder(os.Stdout).Encode(decision)
		},
	}
}
