package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/SPT/internal/config"
	"github.com/akyairhashvil/SPT/internal/database"
	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/timer"
	"github.com/akyairhashvil/SPT/internal/topics"
)

var (
	listStates  = []SessionState{StateSelectType, StateSelectTheme, StateSelectTopic}
	timerStates = []SessionState{StateTimer}
)

func registerBindings(r *HandlerRegistry) {
	r.Register(KeyBinding{Keys: []string{"up", "k"}, Handler: handleCursorUp, Description: "up", States: listStates})
	r.Register(KeyBinding{Keys: []string{"down", "j"}, Handler: handleCursorDown, Description: "down", States: listStates})
	r.Register(KeyBinding{Keys: []string{"enter"}, Handler: handleSelect, Description: "select", States: listStates})
	r.Register(KeyBinding{Keys: []string{"r"}, Handler: handleRedraw, Description: "new topics", States: []SessionState{StateSelectTopic}})
	r.Register(KeyBinding{Keys: []string{"esc"}, Handler: handleBack, Description: "back", States: []SessionState{StateSelectTheme, StateSelectTopic}})

	r.Register(KeyBinding{Keys: []string{"s", " "}, Handler: handleStartPause, Description: "start/pause", States: timerStates, Priority: 10})
	r.Register(KeyBinding{Keys: []string{"x"}, Handler: handleStop, Description: "stop", States: timerStates, Priority: 10})
	r.Register(KeyBinding{Keys: []string{"r"}, Handler: handleReset, Description: "reset", States: timerStates, Priority: 10})
	r.Register(KeyBinding{Keys: []string{"h"}, Handler: handleHideCountdown, Description: "hide/show", States: timerStates, Priority: 10})
	r.Register(KeyBinding{Keys: []string{"e"}, Handler: handleEditSettings, Description: "duration", States: timerStates, Priority: 10})

	r.Register(KeyBinding{Keys: []string{"r"}, Handler: handleRepeat, Description: "repeat speech", States: []SessionState{StateComplete}, Priority: 10})
	r.Register(KeyBinding{Keys: []string{"n"}, Handler: handleNewSpeech, Description: "new speech", States: []SessionState{StateTimer, StateComplete}, Priority: 5})

	r.Register(KeyBinding{Keys: []string{"t"}, Handler: handleToggleTheme, Description: "theme", Priority: -1})
	r.Register(KeyBinding{Keys: []string{"q"}, Handler: handleQuit, Description: "quit", Priority: -1})
}

func (m MainModel) listLen() int {
	switch m.state {
	case StateSelectType:
		return len(models.SpeechTypes)
	case StateSelectTheme:
		return len(topics.Themes())
	case StateSelectTopic:
		return len(m.topicOptions)
	}
	return 0
}

func handleCursorUp(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	if m.cursor > 0 {
		m.cursor--
	}
	return m, nil, true
}

func handleCursorDown(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	if m.cursor < m.listLen()-1 {
		m.cursor++
	}
	return m, nil, true
}

func handleSelect(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	switch m.state {
	case StateSelectType:
		return m.chooseSpeechType(models.SpeechTypes[m.cursor])
	case StateSelectTheme:
		themes := topics.Themes()
		m.themeID = themes[m.cursor].ID
		m.saveSetting(database.SettingLastTheme, m.themeID)
		return m.drawTopics()
	case StateSelectTopic:
		if len(m.topicOptions) == 0 {
			return m, nil, true
		}
		m.topic = m.topicOptions[m.cursor]
		m.runner.SetTopic(m.topic)
		cmd := m.openSettings()
		return m, cmd, true
	}
	return m, nil, false
}

// chooseSpeechType resets the configuration to the type's defaults. A topic
// must be drawn first for impromptu speeches.
func (m MainModel) chooseSpeechType(st models.SpeechType) (MainModel, tea.Cmd, bool) {
	if !m.runner.SetSpeechType(st) {
		m.runner.Stop()
		m.runner.SetSpeechType(st)
	}
	m.speechType = st
	m.log.Debug().Str("speech_type", string(st)).Msg("speech type selected")
	m.topic = ""
	m.topicOptions = nil
	m.runner.SetTopic("")
	if st.NeedsTopic() {
		m.state = StateSelectTheme
		m.cursor = 0
		for i, theme := range topics.Themes() {
			if theme.ID == m.themeID {
				m.cursor = i
			}
		}
		return m, nil, true
	}
	cmd := m.openSettings()
	return m, cmd, true
}

func (m MainModel) drawTopics() (MainModel, tea.Cmd, bool) {
	drawn, err := m.provider.Random(m.themeID, config.TopicsPerDraw)
	if err != nil {
		m.err = err
		return m, nil, true
	}
	m.err = nil
	m.topicOptions = drawn
	m.cursor = 0
	m.state = StateSelectTopic
	return m, nil, true
}

func handleRedraw(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	return m.drawTopics()
}

func handleBack(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	switch m.state {
	case StateSelectTopic:
		m.state = StateSelectTheme
		m.cursor = 0
		for i, theme := range topics.Themes() {
			if theme.ID == m.themeID {
				m.cursor = i
			}
		}
	default:
		m.state = StateSelectType
		m.cursor = indexOfSpeechType(m.speechType)
	}
	m.err = nil
	return m, nil, true
}

func handleStartPause(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	if m.speechType.NeedsTopic() && m.topic == "" {
		m.err = fmt.Errorf("choose a topic before starting an %s speech", m.speechType)
		return m, nil, true
	}
	m.err = nil
	switch m.runner.Snapshot().Lifecycle {
	case timer.LifecycleRunning:
		m.runner.Pause()
	case timer.LifecyclePaused:
		m.runner.Resume()
	default:
		m.runner.Start()
	}
	return m, nil, true
}

func handleStop(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	m.runner.Stop()
	return m, nil, true
}

func handleReset(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	m.runner.Reset()
	return m, nil, true
}

func handleHideCountdown(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	m.hideCountdown = !m.hideCountdown
	m.saveSetting(database.SettingHideCountdown, strconv.FormatBool(m.hideCountdown))
	return m, nil, true
}

func handleEditSettings(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	if !m.runner.Engine().CanEdit() {
		m.err = fmt.Errorf("stop the timer to change the duration")
		return m, nil, true
	}
	cmd := m.openSettings()
	return m, cmd, true
}

func handleRepeat(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	m.state = StateTimer
	m.runner.Start()
	return m, nil, true
}

func handleNewSpeech(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	m.runner.Stop()
	m.state = StateSelectType
	m.cursor = indexOfSpeechType(m.speechType)
	m.err = nil
	return m, nil, true
}

func handleToggleTheme(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	next := "light"
	if themeKey(CurrentTheme) == "light" {
		next = "dark"
	}
	SetTheme(next)
	m.saveSetting(database.SettingTheme, next)
	return m, nil, true
}

func handleQuit(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	m.runner.Close()
	return m, tea.Quit, true
}
