package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/SPT/internal/timer"
)

// --- Messages ---
type EngineEventMsg timer.Event

type engineClosedMsg struct{}

// waitForEvent blocks on the engine subscription and hands the next event to
// Update. Each handled event schedules the next wait.
func waitForEvent(ch <-chan timer.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return engineClosedMsg{}
		}
		return EngineEventMsg(ev)
	}
}

func timeSeed() int64 {
	return time.Now().UnixNano()
}
