package timer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, st models.SpeechType, options Options) (*Engine, *ManualClock) {
	t.Helper()
	clock := NewManualClock(epoch)
	options.Clock = clock
	engine := New(st, options)
	t.Cleanup(engine.Close)
	return engine, clock
}

func intPtr(v int) *int { return &v }

func drainAlerts(events <-chan Event) []string {
	var alerts []string
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return alerts
			}
			if event.Type == EventAlert {
				alerts = append(alerts, event.Message)
			}
		default:
			return alerts
		}
	}
}

func TestNewUsesDefaultDurations(t *testing.T) {
	cases := map[models.SpeechType]int{
		models.SpeechImpromptu:  150,
		models.SpeechPrepared:   420,
		models.SpeechEvaluative: 150,
	}
	for st, want := range cases {
		engine, _ := newTestEngine(t, st, Options{})
		engine.Start()
		snap := engine.Snapshot()
		if snap.TotalSeconds != want || snap.Remaining != want {
			t.Fatalf("%s: total=%d remaining=%d, want %d", st, snap.TotalSeconds, snap.Remaining, want)
		}
		if snap.Progress != 1 {
			t.Fatalf("%s: progress = %v, want 1", st, snap.Progress)
		}
		if snap.Custom() {
			t.Fatalf("%s: default duration reported as custom", st)
		}
	}
}

func TestNewWithCustomDuration(t *testing.T) {
	engine, _ := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(1), CustomSeconds: intPtr(40)})
	snap := engine.Snapshot()
	if snap.TotalSeconds != 100 {
		t.Fatalf("total = %d, want 100", snap.TotalSeconds)
	}
	if !snap.Custom() || snap.Thresholds.Green != 32 || snap.Thresholds.Orange != 16 {
		t.Fatalf("thresholds = %+v", snap.Thresholds)
	}
	if snap.RemainingMinutes != 1 || snap.RemainingSeconds != 40 {
		t.Fatalf("display = %d:%02d", snap.RemainingMinutes, snap.RemainingSeconds)
	}
}

func TestProgressWithZeroTotal(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(0), CustomSeconds: intPtr(0)})
	snap := engine.Snapshot()
	if snap.TotalSeconds != 0 || snap.Progress != 1 {
		t.Fatalf("total=%d progress=%v", snap.TotalSeconds, snap.Progress)
	}

	engine.Start()
	clock.Advance(time.Second)
	snap = engine.Snapshot()
	if snap.Lifecycle != LifecycleCompleted || snap.Remaining != 0 {
		t.Fatalf("expected immediate completion, got %+v", snap)
	}
	if snap.Progress != 1 {
		t.Fatalf("progress = %v, want 1", snap.Progress)
	}
}

func TestTickSequenceAndSingleCompletion(t *testing.T) {
	var completed int32
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{
		CustomMinutes: intPtr(0),
		CustomSeconds: intPtr(10),
		OnComplete:    func() { atomic.AddInt32(&completed, 1) },
	})
	events := engine.Subscribe(256)
	engine.Start()

	previous := engine.Snapshot().Remaining
	for i := 0; i < 9; i++ {
		clock.Advance(time.Second)
		snap := engine.Snapshot()
		if snap.Remaining != previous-1 {
			t.Fatalf("tick %d: remaining %d, want %d", i+1, snap.Remaining, previous-1)
		}
		if snap.Progress < 0 || snap.Progress > 1 {
			t.Fatalf("progress out of range: %v", snap.Progress)
		}
		previous = snap.Remaining
	}
	if engine.Snapshot().Lifecycle != LifecycleRunning {
		t.Fatalf("expected running with one second left")
	}

	clock.Advance(time.Second)
	snap := engine.Snapshot()
	if snap.Lifecycle != LifecycleCompleted || snap.Remaining != 0 || snap.Running {
		t.Fatalf("unexpected completion snapshot: %+v", snap)
	}
	if snap.Color != ColorRed {
		t.Fatalf("color = %s, want red", snap.Color)
	}
	if snap.Alert != AlertTimesUp {
		t.Fatalf("alert = %q", snap.Alert)
	}
	if atomic.LoadInt32(&completed) != 0 {
		t.Fatalf("completion callback must wait for the delay")
	}

	clock.Advance(time.Second)
	clock.Advance(time.Minute)
	if got := atomic.LoadInt32(&completed); got != 1 {
		t.Fatalf("completion callback called %d times", got)
	}
	if engine.Snapshot().Remaining != 0 {
		t.Fatalf("remaining went below zero")
	}

	var completions, stateCompletes int
	for {
		select {
		case event := <-events:
			if event.Type == EventCompleted {
				completions++
			}
			if event.Type == EventStateChange && event.Op == OpComplete {
				stateCompletes++
			}
			continue
		default:
		}
		break
	}
	if completions != 1 || stateCompletes != 1 {
		t.Fatalf("completions=%d stateCompletes=%d", completions, stateCompletes)
	}
}

func TestPreparedAlertsFireOncePerThreshold(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechPrepared, Options{})
	events := engine.Subscribe(4096)
	engine.Start()

	clock.Advance(420 * time.Second)
	clock.Advance(5 * time.Second)

	want := []string{"1 minute remaining", "30 seconds remaining", AlertTimesUp}
	if diff := cmp.Diff(want, drainAlerts(events)); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomDurationColorsAndAlerts(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(1), CustomSeconds: intPtr(40)})
	events := engine.Subscribe(1024)
	engine.Start()

	colors := map[int]ColorState{}
	for i := 0; i < 99; i++ {
		clock.Advance(time.Second)
		snap := engine.Snapshot()
		colors[snap.Remaining] = snap.Color
	}
	if colors[33] != ColorDefault || colors[32] != ColorGreen {
		t.Fatalf("green transition: 33=%s 32=%s", colors[33], colors[32])
	}
	if colors[17] != ColorGreen || colors[16] != ColorOrange {
		t.Fatalf("orange transition: 17=%s 16=%s", colors[17], colors[16])
	}

	want := []string{"32 seconds remaining", "16 seconds remaining"}
	if diff := cmp.Diff(want, drainAlerts(events)); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomAlertWithMinutes(t *testing.T) {
	// 240s: green = ceil(76.8) = 77, orange = ceil(38.4) = 39.
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(4), CustomSeconds: intPtr(0)})
	events := engine.Subscribe(1024)
	engine.Start()
	clock.Advance(240 * time.Second)

	want := []string{"1 minute 17 seconds remaining", "39 seconds remaining", AlertTimesUp}
	if diff := cmp.Diff(want, drainAlerts(events)); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestShortCountdownSkipsThresholdAlerts(t *testing.T) {
	// One second: both thresholds are 1, but the only tick completes the
	// countdown, so equality is never observed on a decrement.
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(0), CustomSeconds: intPtr(1)})
	events := engine.Subscribe(64)
	engine.Start()
	clock.Advance(2 * time.Second)

	if diff := cmp.Diff([]string{AlertTimesUp}, drainAlerts(events)); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(0), CustomSeconds: intPtr(10)})
	engine.Start()
	clock.Advance(3 * time.Second)
	if got := engine.Snapshot().Remaining; got != 7 {
		t.Fatalf("remaining = %d, want 7", got)
	}

	engine.Pause()
	snap := engine.Snapshot()
	if !snap.Paused || !snap.Running || snap.Lifecycle != LifecyclePaused {
		t.Fatalf("unexpected paused snapshot: %+v", snap)
	}
	clock.Advance(10 * time.Minute)
	if got := engine.Snapshot().Remaining; got != 7 {
		t.Fatalf("remaining changed while paused: %d", got)
	}

	engine.Resume()
	clock.Advance(time.Second)
	if got := engine.Snapshot().Remaining; got != 6 {
		t.Fatalf("remaining = %d, want 6", got)
	}
}

func TestPauseResumeGuards(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{})
	engine.Pause()
	engine.Resume()
	if engine.Snapshot().Lifecycle != LifecycleIdle {
		t.Fatalf("pause/resume on idle engine must be no-ops")
	}

	engine.Start()
	engine.Resume()
	engine.Pause()
	engine.Pause()
	if engine.Snapshot().Lifecycle != LifecyclePaused {
		t.Fatalf("expected paused")
	}
	if clock.Pending() != 0 {
		t.Fatalf("paused engine should hold no tick registration, pending=%d", clock.Pending())
	}
}

func TestStopThenStartRestoresDefault(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(1), CustomSeconds: intPtr(0)})
	engine.Start()
	clock.Advance(20 * time.Second)

	engine.Stop()
	snap := engine.Snapshot()
	if snap.Lifecycle != LifecycleIdle || snap.TotalSeconds != 150 || snap.Remaining != 150 {
		t.Fatalf("unexpected stopped snapshot: %+v", snap)
	}
	if snap.Color != ColorDefault || snap.Alert != "" || snap.Progress != 1 {
		t.Fatalf("stop should clear visual state: %+v", snap)
	}

	engine.Start()
	if got := engine.Snapshot().Remaining; got != 150 {
		t.Fatalf("remaining after restart = %d, want 150", got)
	}
}

func TestStopClearsAlert(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{})
	engine.Start()
	clock.Advance(90 * time.Second)
	if engine.Snapshot().Alert != "1 minute remaining" {
		t.Fatalf("expected green alert, got %q", engine.Snapshot().Alert)
	}
	engine.Stop()
	if engine.Snapshot().Alert != "" {
		t.Fatalf("stop must clear the alert")
	}
	if clock.Pending() != 0 {
		t.Fatalf("stop must cancel the alert clear, pending=%d", clock.Pending())
	}
}

func TestDoubleStartRegistersOneCadence(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechPrepared, Options{})
	engine.Start()
	engine.Start()
	if clock.Pending() != 1 {
		t.Fatalf("pending registrations = %d, want 1", clock.Pending())
	}

	clock.Advance(5 * time.Second)
	if got := engine.Snapshot().Remaining; got != 415 {
		t.Fatalf("remaining = %d, want 415", got)
	}
}

func TestResetWhileRunningRestarts(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(0), CustomSeconds: intPtr(45)})
	engine.Start()
	clock.Advance(10 * time.Second)

	engine.Reset()
	snap := engine.Snapshot()
	if snap.Lifecycle != LifecycleRunning || snap.Remaining != 150 || snap.TotalSeconds != 150 {
		t.Fatalf("unexpected reset snapshot: %+v", snap)
	}
	if clock.Pending() != 1 {
		t.Fatalf("pending registrations = %d, want 1", clock.Pending())
	}
	clock.Advance(time.Second)
	if got := engine.Snapshot().Remaining; got != 149 {
		t.Fatalf("remaining = %d, want 149", got)
	}
}

func TestResetWhilePausedRestarts(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechPrepared, Options{})
	engine.Start()
	clock.Advance(3 * time.Second)
	engine.Pause()

	engine.Reset()
	snap := engine.Snapshot()
	if snap.Lifecycle != LifecycleRunning || snap.Paused || snap.Remaining != 420 {
		t.Fatalf("unexpected reset snapshot: %+v", snap)
	}
}

func TestResetWhileIdleStaysIdle(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(3), CustomSeconds: intPtr(0)})
	engine.Reset()
	snap := engine.Snapshot()
	if snap.Lifecycle != LifecycleIdle || snap.TotalSeconds != 150 {
		t.Fatalf("unexpected reset snapshot: %+v", snap)
	}
	if clock.Pending() != 0 {
		t.Fatalf("idle reset must not schedule ticks")
	}
}

func TestSettingsOnlyWhileIdle(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{})
	if !engine.SetMinutes(1) || !engine.SetSeconds(40) {
		t.Fatalf("idle engine should accept settings")
	}
	snap := engine.Snapshot()
	if snap.TotalSeconds != 100 || snap.Remaining != 100 || snap.Progress != 1 {
		t.Fatalf("settings not applied: %+v", snap)
	}

	engine.Start()
	clock.Advance(2 * time.Second)
	if engine.SetMinutes(5) || engine.SetSeconds(5) || engine.SetDuration(1, 1) || engine.SetSpeechType(models.SpeechPrepared) {
		t.Fatalf("running engine must reject settings")
	}
	if engine.CanEdit() {
		t.Fatalf("CanEdit should be false while running")
	}
	engine.Pause()
	if engine.SetMinutes(5) {
		t.Fatalf("paused engine must reject settings")
	}
	snap = engine.Snapshot()
	if snap.TotalSeconds != 100 || snap.Remaining != 98 {
		t.Fatalf("settings leaked into a live countdown: %+v", snap)
	}
}

func TestNegativeSettingsCoercedToZero(t *testing.T) {
	engine, _ := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(-2), CustomSeconds: intPtr(-9)})
	if got := engine.Snapshot().TotalSeconds; got != 0 {
		t.Fatalf("total = %d, want 0", got)
	}
	engine.SetMinutes(-1)
	engine.SetSeconds(30)
	snap := engine.Snapshot()
	if snap.Configured.Minutes != 0 || snap.TotalSeconds != 30 {
		t.Fatalf("unexpected configuration: %+v", snap)
	}
}

func TestSetSpeechTypeLoadsDefaults(t *testing.T) {
	engine, _ := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(9)})
	if !engine.SetSpeechType(models.SpeechPrepared) {
		t.Fatalf("SetSpeechType rejected while idle")
	}
	snap := engine.Snapshot()
	if snap.SpeechType != models.SpeechPrepared || snap.TotalSeconds != 420 || snap.Custom() {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if engine.SetSpeechType(models.SpeechType("toast")) {
		t.Fatalf("unknown speech type should be rejected")
	}
}

func TestAlertClearsAfterWindowAndRestartsOnNewAlert(t *testing.T) {
	// 10s: green = 4 (t=6), orange = 2 (t=8).
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(0), CustomSeconds: intPtr(10)})
	engine.Start()

	clock.Advance(6 * time.Second)
	if got := engine.Snapshot().Alert; got != "4 seconds remaining" {
		t.Fatalf("alert = %q", got)
	}
	clock.Advance(2 * time.Second)
	if got := engine.Snapshot().Alert; got != "2 seconds remaining" {
		t.Fatalf("alert = %q", got)
	}
	clock.Advance(1500 * time.Millisecond)
	if got := engine.Snapshot().Alert; got != "2 seconds remaining" {
		t.Fatalf("new alert should restart the window, got %q", got)
	}

	engine.Pause()
	clock.Advance(1500 * time.Millisecond)
	if got := engine.Snapshot().Alert; got != "" {
		t.Fatalf("alert should clear after its window, got %q", got)
	}
}

func TestStartAfterCompletionRunsConfiguredDuration(t *testing.T) {
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{CustomMinutes: intPtr(0), CustomSeconds: intPtr(5)})
	engine.Start()
	clock.Advance(5 * time.Second)
	if engine.Snapshot().Lifecycle != LifecycleCompleted {
		t.Fatalf("expected completed")
	}
	if !engine.CanEdit() {
		t.Fatalf("completed engine should accept settings")
	}

	engine.Start()
	snap := engine.Snapshot()
	if snap.Lifecycle != LifecycleRunning || snap.Remaining != 5 || snap.Alert != "" {
		t.Fatalf("unexpected restart snapshot: %+v", snap)
	}
}

func TestCloseCancelsEverything(t *testing.T) {
	var completed int32
	engine, clock := newTestEngine(t, models.SpeechImpromptu, Options{
		CustomMinutes: intPtr(0),
		CustomSeconds: intPtr(2),
		OnComplete:    func() { atomic.AddInt32(&completed, 1) },
	})
	events := engine.Subscribe(16)
	engine.Start()
	clock.Advance(2 * time.Second)
	if clock.Pending() != 2 {
		t.Fatalf("expected alert clear and completion pending, got %d", clock.Pending())
	}

	engine.Close()
	if clock.Pending() != 0 {
		t.Fatalf("Close left %d registrations", clock.Pending())
	}
	clock.Advance(time.Minute)
	if atomic.LoadInt32(&completed) != 0 {
		t.Fatalf("completion fired after Close")
	}

	for range events {
	}
	engine.Start()
	if engine.Snapshot().Lifecycle != LifecycleCompleted {
		t.Fatalf("operations after Close must be ignored")
	}
	if _, ok := <-engine.Subscribe(1); ok {
		t.Fatalf("Subscribe after Close should return a closed channel")
	}
}

func TestStaleTickAfterCancelIsIgnored(t *testing.T) {
	clock := NewManualClock(epoch)
	engine := New(models.SpeechImpromptu, Options{Clock: clock})
	defer engine.Close()
	engine.Start()

	engine.mu.Lock()
	staleGen := engine.tickGen
	engine.mu.Unlock()
	engine.Pause()
	engine.Resume()

	engine.onTick(staleGen)
	if got := engine.Snapshot().Remaining; got != 150 {
		t.Fatalf("stale tick mutated state: remaining=%d", got)
	}
}

func TestSystemClockTeardownLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	done := make(chan struct{})
	var once sync.Once
	engine := New(models.SpeechImpromptu, Options{
		CustomMinutes:   intPtr(0),
		CustomSeconds:   intPtr(3),
		TickInterval:    5 * time.Millisecond,
		AlertWindow:     20 * time.Millisecond,
		CompletionDelay: 5 * time.Millisecond,
		OnComplete:      func() { once.Do(func() { close(done) }) },
	})
	engine.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown did not complete")
	}
	if snap := engine.Snapshot(); snap.Lifecycle != LifecycleCompleted || snap.Remaining != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	engine.Start()
	engine.Close()
}
