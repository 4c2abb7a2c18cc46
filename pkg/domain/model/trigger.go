package model

import "time"

// EventKind represents the kind of trigger event received
type EventKind string

const (
	// EventKindPush is a push of commits to a branch
	EventKindPush EventKind = "push"
	// EventKindReviewRequest is a proposed change submitted for review
	// against a branch (a pull request), not yet merged
	EventKindReviewRequest EventKind = "review_request"
	// EventKindUnknown is any event herald does not act on
	EventKindUnknown EventKind = "unknown"
)

// TriggerEvent represents one repository event that may trigger a build.
// For push events Branch is the branch the commits landed on; for review
// requests it is the branch the change targets.
type TriggerEvent struct {
	ID         string    // Retrieved from X-GitHub-Delivery header
	Kind       EventKind // Mapped from X-GitHub-Event header
	Branch     string    // Origin branch of the event
	Repository string    // Repository full name (owner/name)
	CommitSHA  string    // Head commit of the event
	Sender     string    // User who triggered the event
	ReceivedAt time.Time // Time when the event was received
	RawPayload []byte    // Raw JSON payload
}

// IsRecognized reports whether the event kind is one herald evaluates
func (e *TriggerEvent) IsRecognized() bool {
	switch e.Kind {
	case EventKindPush, EventKindReviewRequest:
		return true
	default:
		return false
	}
}
