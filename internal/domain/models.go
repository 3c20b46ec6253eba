package domain

import "time"

// Status is the availability state of a monitored target.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusUp      Status = "up"
	StatusDown    Status = "down"
)

// TargetState is the latest per-target view maintained by its monitor.
type TargetState struct {
	Name                string    `json:"name"`
	URL                 string    `json:"url"`
	Status              Status    `json:"status"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastStatusCode      int       `json:"last_status_code,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
	LastChecked         time.Time `json:"last_checked"`
}

// Event records an UP/DOWN transition. Events fire only when the status
// actually changes, never on steady-state cycles.
type Event struct {
	Name                string    `json:"name"`
	URL                 string    `json:"url"`
	From                Status    `json:"from"`
	To                  Status    `json:"to"`
	Reason              string    `json:"reason,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	At                  time.Time `json:"at"`
}
