package timer

import (
	"time"

	"github.com/akyairhashvil/SPT/internal/models"
)

// Lifecycle is the run status of a countdown.
type Lifecycle string

const (
	LifecycleIdle      Lifecycle = "idle"
	LifecycleRunning   Lifecycle = "running"
	LifecyclePaused    Lifecycle = "paused"
	LifecycleCompleted Lifecycle = "completed"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventTick         EventType = "tick"
	EventAlert        EventType = "alert"
	EventAlertCleared EventType = "alert_cleared"
	EventSettings     EventType = "settings"
	EventCompleted    EventType = "completed"
)

// Op names the control operation behind a state change.
type Op string

const (
	OpStart    Op = "start"
	OpPause    Op = "pause"
	OpResume   Op = "resume"
	OpStop     Op = "stop"
	OpReset    Op = "reset"
	OpComplete Op = "complete"
)

// Snapshot is a consistent read of the engine outputs.
type Snapshot struct {
	SpeechType       models.SpeechType
	Lifecycle        Lifecycle
	TotalSeconds     int
	Remaining        int
	RemainingMinutes int
	RemainingSeconds int
	Running          bool
	Paused           bool
	Progress         float64
	Color            ColorState
	Alert            string
	Thresholds       Thresholds
	Configured       models.Duration
}

// Custom reports whether the countdown uses proportional thresholds.
func (s Snapshot) Custom() bool {
	return s.Thresholds.Custom
}

// Elapsed is the number of seconds already counted down.
func (s Snapshot) Elapsed() int {
	return s.TotalSeconds - s.Remaining
}

// Event represents an engine update for observers.
type Event struct {
	Type     EventType
	Op       Op
	Snapshot Snapshot
	Message  string
	At       time.Time
}
