// Package practice binds a countdown engine to session history and metrics.
package practice

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/akyairhashvil/SPT/internal/database"
	"github.com/akyairhashvil/SPT/internal/metrics"
	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/timer"
	"github.com/akyairhashvil/SPT/internal/util"
)

// Options configures a Runner. Store may be nil to disable history.
type Options struct {
	Store         database.SessionStore
	Clock         timer.Clock
	CustomMinutes *int
	CustomSeconds *int
	Topic         string
}

// Runner drives one engine and records every started countdown as a session.
// Control methods mirror the engine and are no-ops when they do not apply.
type Runner struct {
	mu     sync.Mutex
	ctx    context.Context
	engine *timer.Engine
	store  database.SessionStore
	clock  timer.Clock
	log    zerolog.Logger

	topic   string
	current *models.Session
}

// NewRunner creates a runner with an idle engine for speechType.
func NewRunner(ctx context.Context, speechType models.SpeechType, opts Options) *Runner {
	if opts.Clock == nil {
		opts.Clock = timer.SystemClock
	}
	r := &Runner{
		ctx:   ctx,
		store: opts.Store,
		clock: opts.Clock,
		log:   util.Logger("practice"),
		topic: opts.Topic,
	}
	r.engine = timer.New(speechType, timer.Options{
		Clock:         opts.Clock,
		CustomMinutes: opts.CustomMinutes,
		CustomSeconds: opts.CustomSeconds,
		OnComplete:    r.onComplete,
	})
	return r
}

// Engine exposes the underlying engine for snapshots and subscriptions.
func (r *Runner) Engine() *timer.Engine {
	return r.engine
}

// Snapshot returns the engine outputs.
func (r *Runner) Snapshot() timer.Snapshot {
	return r.engine.Snapshot()
}

// Topic returns the topic attached to new sessions.
func (r *Runner) Topic() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.topic
}

// SetTopic changes the topic recorded for the next session.
func (r *Runner) SetTopic(topic string) {
	r.mu.Lock()
	r.topic = topic
	r.mu.Unlock()
}

// Current returns a copy of the in-progress session, if any.
func (r *Runner) Current() (models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return models.Session{}, false
	}
	return *r.current, true
}

// Start begins a countdown and records a new session. It does nothing while a
// countdown is running or paused.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := r.engine.Snapshot()
	r.settleCompletedLocked(before)
	if before.Running {
		return
	}
	r.engine.Start()
	after := r.engine.Snapshot()
	if after.Lifecycle != timer.LifecycleRunning {
		return
	}
	r.beginLocked(after)
}

// Pause freezes a running countdown; the session stays in progress.
func (r *Runner) Pause() {
	r.transition(r.engine.Pause, timer.LifecyclePaused, "countdown paused")
}

// Resume continues a paused countdown.
func (r *Runner) Resume() {
	r.transition(r.engine.Resume, timer.LifecycleRunning, "countdown resumed")
}

// transition runs op and logs msg only when the engine moved into want.
func (r *Runner) transition(op func(), want timer.Lifecycle, msg string) {
	before := r.engine.Snapshot().Lifecycle
	op()
	if before != want && r.engine.Snapshot().Lifecycle == want {
		r.log.Debug().Msg(msg)
	}
}

// Stop abandons an active countdown and records its session as stopped with
// the seconds already spoken. Stopping an idle countdown does nothing.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := r.engine.Snapshot()
	r.settleCompletedLocked(before)
	r.engine.Stop()
	if before.Running {
		r.finishLocked(models.OutcomeStopped, before.Elapsed())
	}
}

// Reset restores the default duration. An active countdown is recorded as
// reset and a fresh session begins with the restarted countdown.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := r.engine.Snapshot()
	r.settleCompletedLocked(before)
	r.engine.Reset()
	if !before.Running {
		return
	}
	r.finishLocked(models.OutcomeReset, before.Elapsed())
	if after := r.engine.Snapshot(); after.Lifecycle == timer.LifecycleRunning {
		r.beginLocked(after)
	}
}

// SetSpeechType and SetDuration move a completed engine back to IDLE, so a
// pending completion is recorded first.
func (r *Runner) SetSpeechType(speechType models.SpeechType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settleCompletedLocked(r.engine.Snapshot())
	return r.engine.SetSpeechType(speechType)
}

func (r *Runner) SetDuration(minutes, seconds int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settleCompletedLocked(r.engine.Snapshot())
	return r.engine.SetDuration(minutes, seconds)
}

// Observe updates metrics for an engine event. Views call it for every
// event they receive from a subscription.
func (r *Runner) Observe(ev timer.Event) {
	if ev.Type == timer.EventAlert {
		metrics.IncAlert(string(ev.Snapshot.SpeechType))
		r.log.Debug().Str("alert", ev.Message).Int("remaining", ev.Snapshot.Remaining).Msg("alert shown")
	}
}

// Close records an active countdown as stopped and releases the engine.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.engine.Snapshot()
	r.settleCompletedLocked(snap)
	if snap.Running {
		r.finishLocked(models.OutcomeStopped, snap.Elapsed())
	}
	r.engine.Close()
}

func (r *Runner) onComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settleCompletedLocked(r.engine.Snapshot())
}

// settleCompletedLocked closes the current session once the engine has
// reached COMPLETED. It runs on every control call so a restart inside the
// completion delay never attributes the completion to the new session.
func (r *Runner) settleCompletedLocked(snap timer.Snapshot) {
	if r.current == nil || snap.Lifecycle != timer.LifecycleCompleted {
		return
	}
	r.finishLocked(models.OutcomeCompleted, r.current.PlannedSeconds)
}

func (r *Runner) beginLocked(snap timer.Snapshot) {
	session := models.Session{
		SpeechType:     snap.SpeechType,
		PlannedSeconds: snap.TotalSeconds,
		Custom:         snap.Custom(),
		Outcome:        models.OutcomeInProgress,
		StartedAt:      r.clock.Now(),
	}
	if r.topic != "" && snap.SpeechType.NeedsTopic() {
		session.Topic = util.Ptr(r.topic)
	}
	metrics.IncSessionStarted(string(snap.SpeechType))

	if r.store != nil {
		created, err := r.store.CreateSession(r.ctx, session)
		if err != nil {
			r.log.Error().Err(err).Msg("record session start failed")
		} else {
			session = created
		}
	}
	r.current = &session
	r.log.Info().
		Str("session", session.UUID).
		Str("speech_type", string(session.SpeechType)).
		Int("planned_seconds", session.PlannedSeconds).
		Msg("countdown started")
}

func (r *Runner) finishLocked(outcome models.SessionOutcome, elapsed int) {
	session := r.current
	if session == nil {
		return
	}
	r.current = nil
	metrics.RecordSessionEnded(string(session.SpeechType), string(outcome), elapsed)
	r.log.Info().
		Str("session", session.UUID).
		Str("outcome", string(outcome)).
		Int("elapsed_seconds", elapsed).
		Msg("countdown finished")

	if r.store == nil || session.ID == 0 {
		return
	}
	if err := r.store.FinishSession(r.ctx, session.ID, outcome, elapsed, r.clock.Now()); err != nil {
		r.log.Error().Err(err).Int64("session_id", session.ID).Msg("record session outcome failed")
	}
}
