package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "KILL_SWITCH_ENGAGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used by the access-control services.
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

// Event type codes published by this core.
const (
	TypeFlagUpdated       = "FLAG_UPDATED"
	TypeFlagDeleted       = "FLAG_DELETED"
	TypeKillSwitchEngaged = "KILL_SWITCH_ENGAGED"
	TypeAllTokensRevoked  = "ALL_TOKENS_REVOKED"
	TypeTokenInvalidated  = "TOKEN_INVALIDATED"
)
