package timer

import (
	"sync"
	"time"

	"github.com/akyairhashvil/SPT/internal/config"
	"github.com/akyairhashvil/SPT/internal/models"
)

// Options contains construction inputs for an Engine.
type Options struct {
	Clock      Clock
	OnComplete func()

	// CustomMinutes and CustomSeconds override the speech type's default duration.
	CustomMinutes *int
	CustomSeconds *int

	TickInterval    time.Duration
	AlertWindow     time.Duration
	CompletionDelay time.Duration
}

// Engine is the countdown state machine for one practice speech.
//
// Every control operation is a guarded no-op when it does not apply, so callers
// never have to handle errors. Clock callbacks may arrive on other goroutines;
// each registration carries a generation so a callback that lost a race with
// its own cancellation does nothing.
type Engine struct {
	mu      sync.Mutex
	clock   Clock
	options Options

	speechType models.SpeechType
	minutes    int
	seconds    int
	total      int
	remaining  int
	lifecycle  Lifecycle
	alert      string

	tickTimer  Timer
	tickGen    uint64
	nextTickAt time.Time

	alertTimer Timer
	alertGen   uint64

	completions map[uint64]Timer
	completeSeq uint64

	events []chan Event
	closed bool
}

// New creates an idle Engine for the speech type.
func New(speechType models.SpeechType, options Options) *Engine {
	if options.Clock == nil {
		options.Clock = SystemClock
	}
	if options.TickInterval <= 0 {
		options.TickInterval = config.TickInterval
	}
	if options.AlertWindow <= 0 {
		options.AlertWindow = config.AlertWindow
	}
	if options.CompletionDelay <= 0 {
		options.CompletionDelay = config.CompletionDelay
	}
	if !speechType.Valid() {
		speechType = models.SpeechImpromptu
	}

	engine := &Engine{
		clock:       options.Clock,
		options:     options,
		speechType:  speechType,
		lifecycle:   LifecycleIdle,
		completions: make(map[uint64]Timer),
	}
	defaults := models.DefaultDuration(speechType)
	engine.minutes = defaults.Minutes
	engine.seconds = defaults.Seconds
	if options.CustomMinutes != nil {
		engine.minutes = clampField(*options.CustomMinutes)
	}
	if options.CustomSeconds != nil {
		engine.seconds = clampField(*options.CustomSeconds)
	}
	engine.syncDurationLocked()
	return engine
}

// Subscribe registers a new observer channel. Events are dropped for a
// subscriber whose buffer is full. Channels are closed by Close.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Snapshot returns the current outputs.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Start snapshots the configured duration and begins the countdown.
// Starting a running or paused countdown has no effect.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.lifecycle == LifecycleRunning || engine.lifecycle == LifecyclePaused {
		return
	}
	engine.syncDurationLocked()
	engine.cancelAlertLocked()
	engine.alert = ""
	engine.lifecycle = LifecycleRunning
	engine.scheduleTickLocked()
	engine.emitLocked(EventStateChange, OpStart, "")
}

// Pause freezes a running countdown.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.lifecycle != LifecycleRunning {
		return
	}
	engine.cancelTickLocked()
	engine.lifecycle = LifecyclePaused
	engine.emitLocked(EventStateChange, OpPause, "")
}

// Resume restarts a paused countdown from the remaining time.
func (engine *Engine) Resume() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.lifecycle != LifecyclePaused {
		return
	}
	engine.lifecycle = LifecycleRunning
	engine.scheduleTickLocked()
	engine.emitLocked(EventStateChange, OpResume, "")
}

// Stop abandons the countdown and restores the speech type's default duration.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.lifecycle == LifecycleIdle {
		return
	}
	engine.cancelTickLocked()
	engine.restoreDefaultsLocked()
	engine.lifecycle = LifecycleIdle
	engine.emitLocked(EventStateChange, OpStop, "")
}

// Reset restores the speech type's default duration. An active countdown,
// running or paused, restarts immediately; otherwise the engine is left idle.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}
	active := engine.lifecycle == LifecycleRunning || engine.lifecycle == LifecyclePaused
	engine.cancelTickLocked()
	engine.restoreDefaultsLocked()
	if active {
		engine.lifecycle = LifecycleRunning
		engine.scheduleTickLocked()
	} else {
		engine.lifecycle = LifecycleIdle
	}
	engine.emitLocked(EventStateChange, OpReset, "")
}

// Close cancels all pending callbacks and closes subscriber channels.
// The engine ignores every call made after Close.
func (engine *Engine) Close() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}
	engine.closed = true
	engine.cancelTickLocked()
	engine.cancelAlertLocked()
	for id, t := range engine.completions {
		t.Stop()
		delete(engine.completions, id)
	}
	for _, ch := range engine.events {
		close(ch)
	}
	engine.events = nil
}

// CanEdit reports whether settings mutators are currently accepted.
func (engine *Engine) CanEdit() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.editableLocked()
}

// SetMinutes changes the configured minutes while idle. Negative values become 0.
func (engine *Engine) SetMinutes(minutes int) bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.editableLocked() {
		return false
	}
	engine.minutes = clampField(minutes)
	engine.applySettingsLocked()
	return true
}

// SetSeconds changes the configured seconds while idle. Negative values become 0.
func (engine *Engine) SetSeconds(seconds int) bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.editableLocked() {
		return false
	}
	engine.seconds = clampField(seconds)
	engine.applySettingsLocked()
	return true
}

// SetDuration changes minutes and seconds together while idle.
func (engine *Engine) SetDuration(minutes, seconds int) bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.editableLocked() {
		return false
	}
	engine.minutes = clampField(minutes)
	engine.seconds = clampField(seconds)
	engine.applySettingsLocked()
	return true
}

// SetSpeechType switches the speech type while idle and loads its default duration.
func (engine *Engine) SetSpeechType(speechType models.SpeechType) bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !speechType.Valid() || !engine.editableLocked() {
		return false
	}
	engine.speechType = speechType
	defaults := models.DefaultDuration(speechType)
	engine.minutes = defaults.Minutes
	engine.seconds = defaults.Seconds
	engine.applySettingsLocked()
	return true
}

func (engine *Engine) editableLocked() bool {
	if engine.closed {
		return false
	}
	return engine.lifecycle == LifecycleIdle || engine.lifecycle == LifecycleCompleted
}

func (engine *Engine) applySettingsLocked() {
	engine.lifecycle = LifecycleIdle
	engine.syncDurationLocked()
	engine.emitLocked(EventSettings, "", "")
}

func (engine *Engine) syncDurationLocked() {
	engine.total = engine.minutes*60 + engine.seconds
	engine.remaining = engine.total
}

func (engine *Engine) restoreDefaultsLocked() {
	defaults := models.DefaultDuration(engine.speechType)
	engine.minutes = defaults.Minutes
	engine.seconds = defaults.Seconds
	engine.syncDurationLocked()
	engine.cancelAlertLocked()
	engine.alert = ""
}

func (engine *Engine) scheduleTickLocked() {
	engine.cancelTickLocked()
	engine.nextTickAt = engine.clock.Now().Add(engine.options.TickInterval)
	engine.armTickLocked(engine.options.TickInterval)
}

func (engine *Engine) armTickLocked(delay time.Duration) {
	gen := engine.tickGen
	engine.tickTimer = engine.clock.AfterFunc(delay, func() {
		engine.onTick(gen)
	})
}

func (engine *Engine) cancelTickLocked() {
	engine.tickGen++
	if engine.tickTimer != nil {
		engine.tickTimer.Stop()
		engine.tickTimer = nil
	}
}

func (engine *Engine) onTick(gen uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || gen != engine.tickGen || engine.lifecycle != LifecycleRunning {
		return
	}
	engine.tickTimer = nil

	if engine.remaining <= 1 {
		engine.completeLocked()
		return
	}

	engine.remaining--
	if message, ok := engine.thresholdsLocked().AlertAt(engine.remaining); ok {
		engine.showAlertLocked(message)
	}
	engine.emitLocked(EventTick, "", "")

	engine.nextTickAt = engine.nextTickAt.Add(engine.options.TickInterval)
	delay := engine.nextTickAt.Sub(engine.clock.Now())
	if delay < 0 {
		delay = 0
	}
	engine.armTickLocked(delay)
}

func (engine *Engine) completeLocked() {
	engine.cancelTickLocked()
	engine.remaining = 0
	engine.lifecycle = LifecycleCompleted
	engine.showAlertLocked(AlertTimesUp)
	engine.emitLocked(EventStateChange, OpComplete, "")

	engine.completeSeq++
	id := engine.completeSeq
	engine.completions[id] = engine.clock.AfterFunc(engine.options.CompletionDelay, func() {
		engine.mu.Lock()
		if _, pending := engine.completions[id]; !pending || engine.closed {
			engine.mu.Unlock()
			return
		}
		delete(engine.completions, id)
		engine.emitLocked(EventCompleted, OpComplete, "")
		onComplete := engine.options.OnComplete
		engine.mu.Unlock()

		if onComplete != nil {
			onComplete()
		}
	})
}

func (engine *Engine) showAlertLocked(message string) {
	engine.cancelAlertLocked()
	engine.alert = message
	gen := engine.alertGen
	engine.alertTimer = engine.clock.AfterFunc(engine.options.AlertWindow, func() {
		engine.mu.Lock()
		defer engine.mu.Unlock()
		if engine.closed || gen != engine.alertGen {
			return
		}
		engine.alertTimer = nil
		engine.alert = ""
		engine.emitLocked(EventAlertCleared, "", "")
	})
	engine.emitLocked(EventAlert, "", message)
}

func (engine *Engine) cancelAlertLocked() {
	engine.alertGen++
	if engine.alertTimer != nil {
		engine.alertTimer.Stop()
		engine.alertTimer = nil
	}
}

func (engine *Engine) thresholdsLocked() Thresholds {
	return ThresholdsFor(engine.speechType, engine.total)
}

func (engine *Engine) snapshotLocked() Snapshot {
	thresholds := engine.thresholdsLocked()
	progress := 1.0
	if engine.total > 0 {
		progress = float64(engine.remaining) / float64(engine.total)
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return Snapshot{
		SpeechType:       engine.speechType,
		Lifecycle:        engine.lifecycle,
		TotalSeconds:     engine.total,
		Remaining:        engine.remaining,
		RemainingMinutes: engine.remaining / 60,
		RemainingSeconds: engine.remaining % 60,
		Running:          engine.lifecycle == LifecycleRunning || engine.lifecycle == LifecyclePaused,
		Paused:           engine.lifecycle == LifecyclePaused,
		Progress:         progress,
		Color:            thresholds.Color(engine.remaining),
		Alert:            engine.alert,
		Thresholds:       thresholds,
		Configured:       models.Duration{Minutes: engine.minutes, Seconds: engine.seconds},
	}
}

func (engine *Engine) emitLocked(eventType EventType, op Op, message string) {
	if len(engine.events) == 0 {
		return
	}
	event := Event{
		Type:     eventType,
		Op:       op,
		Snapshot: engine.snapshotLocked(),
		Message:  message,
		At:       engine.clock.Now(),
	}
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func clampField(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
