package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/akyairhashvil/SPT/internal/practice"
	"github.com/akyairhashvil/SPT/internal/timer"
)

// RunPlain runs one countdown with line-oriented output, for terminals that
// cannot host the full-screen program. It returns once the countdown has
// completed or ctx is cancelled; a cancelled countdown is recorded as stopped.
func RunPlain(ctx context.Context, w io.Writer, runner *practice.Runner) error {
	events := runner.Engine().Subscribe(eventBuffer)
	snap := runner.Snapshot()
	header := fmt.Sprintf("%s speech, %s", snap.SpeechType.Label(), FormatSeconds(snap.TotalSeconds))
	if topic := runner.Topic(); topic != "" {
		header += "\nTopic: " + topic
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	runner.Start()
	lastColor := timer.ColorDefault
	for {
		select {
		case <-ctx.Done():
			runner.Stop()
			_, _ = fmt.Fprintln(w, "stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			runner.Observe(ev)
			if line := plainLine(ev, &lastColor); line != "" {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			if ev.Type == timer.EventCompleted {
				return nil
			}
		}
	}
}

func plainLine(ev timer.Event, lastColor *timer.ColorState) string {
	snap := ev.Snapshot
	switch ev.Type {
	case timer.EventTick:
		line := FormatClock(snap.RemainingMinutes, snap.RemainingSeconds)
		if snap.Color != *lastColor {
			*lastColor = snap.Color
			line += " [" + string(snap.Color) + "]"
		}
		return line
	case timer.EventAlert:
		return "** " + ev.Message + " **"
	case timer.EventCompleted:
		return fmt.Sprintf("done: %s spoken", FormatSeconds(snap.TotalSeconds))
	}
	return ""
}
