package models

import (
	"strings"
	"time"
)

// SpeechType enumerates the kinds of speech a user can practice.
type SpeechType string

const (
	SpeechImpromptu  SpeechType = "impromptu"
	SpeechPrepared   SpeechType = "prepared"
	SpeechEvaluative SpeechType = "evaluative"
)

// SpeechTypes lists every speech type in display order.
var SpeechTypes = []SpeechType{SpeechImpromptu, SpeechPrepared, SpeechEvaluative}

// Duration is a minutes/seconds pair as shown to the speaker.
type Duration struct {
	Minutes int
	Seconds int
}

// TotalSeconds returns the duration in whole seconds.
func (d Duration) TotalSeconds() int {
	return d.Minutes*60 + d.Seconds
}

var defaultDurations = map[SpeechType]Duration{
	SpeechImpromptu:  {Minutes: 2, Seconds: 30},
	SpeechPrepared:   {Minutes: 7, Seconds: 0},
	SpeechEvaluative: {Minutes: 2, Seconds: 30},
}

// DefaultDuration returns the built-in duration for a speech type.
// Unknown types fall back to the impromptu duration.
func DefaultDuration(t SpeechType) Duration {
	if d, ok := defaultDurations[t]; ok {
		return d
	}
	return defaultDurations[SpeechImpromptu]
}

// Valid reports whether t is one of the known speech types.
func (t SpeechType) Valid() bool {
	_, ok := defaultDurations[t]
	return ok
}

// Label is the human readable name of the speech type.
func (t SpeechType) Label() string {
	switch t {
	case SpeechImpromptu:
		return "Impromptu"
	case SpeechPrepared:
		return "Prepared"
	case SpeechEvaluative:
		return "Evaluative"
	}
	return string(t)
}

// NeedsTopic reports whether a topic must be chosen before the speech starts.
func (t SpeechType) NeedsTopic() bool {
	return t == SpeechImpromptu
}

// ParseSpeechType parses a speech type name, ignoring case and surrounding space.
func ParseSpeechType(s string) (SpeechType, bool) {
	t := SpeechType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// SessionOutcome records how a practice session ended.
type SessionOutcome string

const (
	OutcomeInProgress SessionOutcome = "in_progress"
	OutcomeCompleted  SessionOutcome = "completed"
	OutcomeStopped    SessionOutcome = "stopped"
	OutcomeReset      SessionOutcome = "reset"
	OutcomeAbandoned  SessionOutcome = "abandoned"
)

// Session is one started countdown.
type Session struct {
	ID             int64
	UUID           string
	SpeechType     SpeechType
	Topic          *string
	PlannedSeconds int
	ElapsedSeconds int
	Custom         bool
	Outcome        SessionOutcome
	StartedAt      time.Time
	EndedAt        *time.Time
}

// SessionStats summarises stored sessions.
type SessionStats struct {
	Total        int
	Completed    int
	TotalSeconds int
	ByType       map[SpeechType]int
}
