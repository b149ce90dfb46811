package testutil

import (
	"time"

	"github.com/akyairhashvil/SPT/internal/models"
)

// SessionBuilder provides fluent API for creating test sessions.
type SessionBuilder struct {
	session models.Session
}

func NewSession() *SessionBuilder {
	d := models.DefaultDuration(models.SpeechImpromptu)
	return &SessionBuilder{
		session: models.Session{
			SpeechType:     models.SpeechImpromptu,
			PlannedSeconds: d.TotalSeconds(),
			Outcome:        models.OutcomeInProgress,
			StartedAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func (b *SessionBuilder) WithType(t models.SpeechType) *SessionBuilder {
	b.session.SpeechType = t
	b.session.PlannedSeconds = models.DefaultDuration(t).TotalSeconds()
	return b
}

func (b *SessionBuilder) WithTopic(topic string) *SessionBuilder {
	b.session.Topic = &topic
	return b
}

func (b *SessionBuilder) WithPlanned(seconds int) *SessionBuilder {
	b.session.PlannedSeconds = seconds
	b.session.Custom = seconds != models.DefaultDuration(b.session.SpeechType).TotalSeconds()
	return b
}

func (b *SessionBuilder) StartedAt(at time.Time) *SessionBuilder {
	b.session.StartedAt = at
	return b
}

// Finished marks the session as ended with outcome after elapsed seconds.
func (b *SessionBuilder) Finished(outcome models.SessionOutcome, elapsed int) *SessionBuilder {
	b.session.Outcome = outcome
	b.session.ElapsedSeconds = elapsed
	ended := b.session.StartedAt.Add(time.Duration(elapsed) * time.Second)
	b.session.EndedAt = &ended
	return b
}

func (b *SessionBuilder) Build() models.Session {
	return b.session
}
