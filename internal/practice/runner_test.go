package practice

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/akyairhashvil/SPT/internal/database/mocks"
	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/timer"
	"github.com/akyairhashvil/SPT/internal/util"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestRunner(t *testing.T, store *mocks.MockSessionStore, speechType models.SpeechType, topic string) (*Runner, *timer.ManualClock) {
	t.Helper()
	clock := timer.NewManualClock(epoch)
	opts := Options{Clock: clock, Topic: topic}
	if store != nil {
		opts.Store = store
	}
	r := NewRunner(context.Background(), speechType, opts)
	t.Cleanup(r.Close)
	return r, clock
}

func createReturning(id int64) func(context.Context, models.Session) (models.Session, error) {
	return func(_ context.Context, s models.Session) (models.Session, error) {
		s.ID = id
		s.UUID = "session-uuid"
		return s, nil
	}
}

func TestRunnerRecordsCompletedSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	topic := "Is there such a thing as objective truth?"

	gomock.InOrder(
		store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, s models.Session) (models.Session, error) {
				if s.SpeechType != models.SpeechImpromptu || s.PlannedSeconds != 150 {
					t.Fatalf("unexpected session: %+v", s)
				}
				if s.Topic == nil || *s.Topic != topic {
					t.Fatalf("topic = %v, want %q", s.Topic, topic)
				}
				if !s.StartedAt.Equal(epoch) || s.Custom {
					t.Fatalf("unexpected session: %+v", s)
				}
				return createReturning(1)(ctx, s)
			}),
		store.EXPECT().FinishSession(gomock.Any(), int64(1), models.OutcomeCompleted, 150, gomock.Any()).Return(nil),
	)

	r, clock := newTestRunner(t, store, models.SpeechImpromptu, topic)
	r.Start()
	if _, ok := r.Current(); !ok {
		t.Fatalf("expected an in-progress session")
	}
	clock.Advance(150 * time.Second)
	if got := r.Snapshot().Lifecycle; got != timer.LifecycleCompleted {
		t.Fatalf("lifecycle = %s, want completed", got)
	}
	clock.Advance(time.Second)
	if _, ok := r.Current(); ok {
		t.Fatalf("session should be finished after completion")
	}
}

func TestRunnerStopRecordsElapsed(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(createReturning(4))
	store.EXPECT().FinishSession(gomock.Any(), int64(4), models.OutcomeStopped, 10, epoch.Add(10*time.Second)).Return(nil)

	r, clock := newTestRunner(t, store, models.SpeechPrepared, "")
	r.Start()
	clock.Advance(10 * time.Second)
	r.Stop()

	snap := r.Snapshot()
	if snap.Lifecycle != timer.LifecycleIdle || snap.Remaining != 420 {
		t.Fatalf("unexpected snapshot after stop: %+v", snap)
	}
	// Stopping again is a no-op and must not touch the store.
	r.Stop()
}

func TestRunnerPreparedSpeechHasNoTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, s models.Session) (models.Session, error) {
			if s.Topic != nil {
				t.Fatalf("prepared speech should not carry a topic")
			}
			return createReturning(2)(ctx, s)
		})
	store.EXPECT().FinishSession(gomock.Any(), int64(2), models.OutcomeStopped, 0, gomock.Any()).Return(nil)

	r, _ := newTestRunner(t, store, models.SpeechPrepared, "leftover topic")
	r.Start()
	r.Stop()
}

func TestRunnerResetStartsNewSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	gomock.InOrder(
		store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(createReturning(1)),
		store.EXPECT().FinishSession(gomock.Any(), int64(1), models.OutcomeReset, 5, gomock.Any()).Return(nil),
		store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(createReturning(2)),
		store.EXPECT().FinishSession(gomock.Any(), int64(2), models.OutcomeStopped, 3, gomock.Any()).Return(nil),
	)

	r, clock := newTestRunner(t, store, models.SpeechEvaluative, "")
	r.Start()
	clock.Advance(5 * time.Second)
	r.Pause()
	r.Reset()
	if got := r.Snapshot().Lifecycle; got != timer.LifecycleRunning {
		t.Fatalf("lifecycle = %s, want running", got)
	}
	clock.Advance(3 * time.Second)
	r.Stop()
}

func TestRunnerResetWhileIdleDoesNotRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	r, _ := newTestRunner(t, store, models.SpeechImpromptu, "")
	r.Reset()
	if r.Snapshot().Lifecycle != timer.LifecycleIdle {
		t.Fatalf("reset while idle should stay idle")
	}
}

func TestRunnerRestartDuringCompletionDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	gomock.InOrder(
		store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(createReturning(1)),
		store.EXPECT().FinishSession(gomock.Any(), int64(1), models.OutcomeCompleted, 5, gomock.Any()).Return(nil),
		store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(createReturning(2)),
		store.EXPECT().FinishSession(gomock.Any(), int64(2), models.OutcomeStopped, 1, gomock.Any()).Return(nil),
	)

	clock := timer.NewManualClock(epoch)
	r := NewRunner(context.Background(), models.SpeechImpromptu, Options{
		Store:         store,
		Clock:         clock,
		CustomMinutes: intPtr(0),
		CustomSeconds: intPtr(5),
	})
	t.Cleanup(r.Close)

	r.Start()
	clock.Advance(5 * time.Second)
	r.Start()
	// The delayed completion callback and the first tick of the new countdown
	// both fall due here; the new session stays open.
	clock.Advance(time.Second)
	if current, ok := r.Current(); !ok || current.ID != 2 {
		t.Fatalf("current = %+v, %v; want session 2", current, ok)
	}
	r.Stop()
}

func TestRunnerCreateFailureSkipsFinish(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(models.Session{}, errors.New("disk full"))

	r, clock := newTestRunner(t, store, models.SpeechImpromptu, "")
	r.Start()
	clock.Advance(2 * time.Second)
	r.Stop()
	if r.Snapshot().Lifecycle != timer.LifecycleIdle {
		t.Fatalf("engine should stop even when history fails")
	}
}

func TestRunnerWithoutStore(t *testing.T) {
	r, clock := newTestRunner(t, nil, models.SpeechImpromptu, "")
	r.Start()
	clock.Advance(3 * time.Second)
	if got := r.Snapshot().Remaining; got != 147 {
		t.Fatalf("remaining = %d, want 147", got)
	}
	r.Stop()
	if _, ok := r.Current(); ok {
		t.Fatalf("no session should remain open")
	}
}

func TestRunnerCloseRecordsActiveSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(createReturning(9))
	store.EXPECT().FinishSession(gomock.Any(), int64(9), models.OutcomeStopped, 7, gomock.Any()).Return(nil)

	clock := timer.NewManualClock(epoch)
	r := NewRunner(context.Background(), models.SpeechImpromptu, Options{Store: store, Clock: clock})
	r.Start()
	clock.Advance(7 * time.Second)
	r.Close()
	r.Close()
	if clock.Pending() != 0 {
		t.Fatalf("pending callbacks after close: %d", clock.Pending())
	}
}

func TestRunnerSettingsPassThrough(t *testing.T) {
	r, _ := newTestRunner(t, nil, models.SpeechImpromptu, "")
	if !r.SetSpeechType(models.SpeechPrepared) {
		t.Fatalf("SetSpeechType should be accepted while idle")
	}
	if !r.SetDuration(3, 0) {
		t.Fatalf("SetDuration should be accepted while idle")
	}
	snap := r.Snapshot()
	if snap.TotalSeconds != 180 || !snap.Custom() {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	r.Start()
	if r.SetDuration(1, 0) {
		t.Fatalf("SetDuration must be rejected while running")
	}
	r.SetTopic("new topic")
	if r.Topic() != "new topic" {
		t.Fatalf("topic not updated")
	}
}

func intPtr(v int) *int { return &v }

func TestRunnerSettingsAfterCompletionRecordsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	gomock.InOrder(
		store.EXPECT().CreateSession(gomock.Any(), gomock.Any()).DoAndReturn(createReturning(3)),
		store.EXPECT().FinishSession(gomock.Any(), int64(3), models.OutcomeCompleted, 2, gomock.Any()).Return(nil),
	)

	clock := timer.NewManualClock(epoch)
	r := NewRunner(context.Background(), models.SpeechImpromptu, Options{
		Store:         store,
		Clock:         clock,
		CustomMinutes: intPtr(0),
		CustomSeconds: intPtr(2),
	})
	t.Cleanup(r.Close)

	r.Start()
	clock.Advance(2 * time.Second)
	if !r.SetSpeechType(models.SpeechEvaluative) {
		t.Fatalf("SetSpeechType should be accepted after completion")
	}
	clock.Advance(time.Second)
	if _, ok := r.Current(); ok {
		t.Fatalf("completed session should be closed")
	}
}

func TestRunnerLogsOnlyEffectivePauseAndResume(t *testing.T) {
	var buf bytes.Buffer
	util.ConfigureLogging(util.LogConfig{Level: "debug", Output: &buf})
	t.Cleanup(func() { util.ConfigureLogging(util.LogConfig{Output: os.Stderr}) })

	r, clock := newTestRunner(t, nil, models.SpeechPrepared, "")
	r.Pause()
	r.Resume()
	if strings.Contains(buf.String(), "countdown paused") || strings.Contains(buf.String(), "countdown resumed") {
		t.Fatalf("idle pause/resume should not log: %s", buf.String())
	}

	r.Start()
	clock.Advance(2 * time.Second)
	r.Pause()
	r.Pause()
	r.Resume()
	r.Resume()
	out := buf.String()
	if n := strings.Count(out, "countdown paused"); n != 1 {
		t.Fatalf("paused logged %d times, want 1", n)
	}
	if n := strings.Count(out, "countdown resumed"); n != 1 {
		t.Fatalf("resumed logged %d times, want 1", n)
	}
	if got := r.Snapshot().Remaining; got != 418 {
		t.Fatalf("remaining = %d, want 418", got)
	}
}
