package syncrun

import "time"

type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailure Status = "failure"
)

type Type string

const (
	TypeScheduled Type = "scheduled"
	TypeManual    Type = "manual"
	TypeSingle    Type = "single"
)

type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
)

type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
}

// Run is an append-only audit record of one sync pass.
type Run struct {
	ID                int64      `json:"id"`
	RunID             string     `json:"run_id"`
	Type              Type       `json:"sync_type"`
	Status            Status     `json:"status"`
	TournamentsSynced int        `json:"tournaments_synced"`
	EventsSynced      int        `json:"events_synced"`
	EntrantsSynced    int        `json:"entrants_synced"`
	ErrorsCount       int        `json:"errors_count"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	Log               []LogEntry `json:"log"`
	DurationMS        int64      `json:"duration_ms"`
	CreatedAt         time.Time  `json:"created_at"`
}

// StatusFor derives the status of a pass that reached finalize.
func StatusFor(errorsCount int) Status {
	if errorsCount > 0 {
		return StatusPartial
	}
	return StatusSuccess
}
