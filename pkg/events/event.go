package events

import "time"

// Event defines the contract for all governance events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "QUALITY_ISSUE_REMEDIATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes published to the governance stream.
const (
	TypeUserLogin          = "USER_LOGIN"
	TypeAssetUpdated       = "ASSET_UPDATED"
	TypeQualityRemediation = "QUALITY_ISSUE_REMEDIATED"
	TypeQaFeedback         = "QA_FEEDBACK_RECORDED"
)
