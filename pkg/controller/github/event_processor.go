package github

import (
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/herald/pkg/domain/model"
)

// Pull request actions that represent reviewable content changes. Other
// actions (labeled, closed, ...) do not change what would be published.
var reviewActions = map[string]bool{
	"opened":      true,
	"synchronize": true,
	"reopened":    true,
}

// MapEvent converts a parsed GitHub webhook payload into a trigger event.
// It returns nil for deliveries that carry no trigger semantics: unrelated
// event types, tag pushes, branch deletions, and pull request actions that
// do not change the proposed content.
func MapEvent(payload any, deliveryID string, rawPayload []byte) *model.TriggerEvent {
	switch e := payload.(type) {
	case *github.PushEvent:
		return mapPushEvent(e, deliveryID, rawPayload)
	case *github.PullRequestEvent:
		return mapPullRequestEvent(e, deliveryID, rawPayload)
	default:
		return nil
	}
}

func mapPushEvent(e *github.PushEvent, deliveryID string, rawPayload []byte) *model.TriggerEvent {
	if e.GetDeleted() {
		return nil
	}

	// Only branch pushes matter; tag pushes use refs/tags/
	branch, ok := strings.CutPrefix(e.GetRef(), "refs/heads/")
	if !ok {
		return nil
	}

	return &model.TriggerEvent{
		ID:         deliveryID,
		Kind:       model.EventKindPush,
		Branch:     branch,
		Repository: e.GetRepo().GetFullName(),
		CommitSHA:  e.GetAfter(),
		Sender:     e.GetSender().GetLogin(),
		ReceivedAt: time.Now(),
		RawPayload: rawPayload,
	}
}

func mapPullRequestEvent(e *github.PullRequestEvent, deliveryID string, rawPayload []byte) *model.TriggerEvent {
	if !reviewActions[e.GetAction()] {
		return nil
	}

	// The origin branch of a review request is the branch the change
	// targets, not the branch it comes from
	return &model.TriggerEvent{
		ID:         deliveryID,
		Kind:       model.EventKindReviewRequest,
		Branch:     e.GetPullRequest().GetBase().GetRef(),
		Repository: e.GetRepo().GetFullName(),
		CommitSHA:  e.GetPullRequest().GetHead().GetSHA(),
		Sender:     e.GetSender().GetLogin(),
		ReceivedAt: time.Now(),
		RawPayload: rawPayload,
	}
}
