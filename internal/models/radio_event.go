package models

import "time"

// Event types.
const (
	EventStart     = "START"
	EventStop      = "STOP"
	EventReconcile = "RECONCILE"
	EventRejected  = "REJECTED"
	EventReset     = "RESET"
)

// Radio modes as recorded in events.
const (
	ModeFakeAP   = "fake_ap"
	ModePortal   = "portal"
	ModeTransfer = "transfer"
	ModeStation  = "station"
)

// RadioEvent is a single log entry.
type RadioEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // START | STOP | RECONCILE | REJECTED | RESET
	Mode        string    `json:"mode,omitempty"`
	Description string    `json:"description"`
	Actor       string    `json:"actor,omitempty"` // operator username; empty for internal transitions
	Metadata    any       `json:"metadata,omitempty"`
}
