package tui

import (
	"context"
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/akyairhashvil/SPT/internal/config"
	"github.com/akyairhashvil/SPT/internal/database"
	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/practice"
	"github.com/akyairhashvil/SPT/internal/timer"
	"github.com/akyairhashvil/SPT/internal/topics"
	"github.com/akyairhashvil/SPT/internal/util"
)

// SessionState defines the screen currently shown.
type SessionState int

const (
	StateSelectType SessionState = iota
	StateSelectTheme
	StateSelectTopic
	StateSettings
	StateTimer
	StateComplete
)

const eventBuffer = 64

// Options contains the dependencies of the TUI. Store may be nil.
type Options struct {
	Store    database.Store
	Settings config.Settings
	Clock    timer.Clock
	Topics   *topics.Provider
}

// MainModel is the root bubbletea model.
type MainModel struct {
	ctx      context.Context
	state    SessionState
	store    database.Store
	runner   *practice.Runner
	events   <-chan timer.Event
	provider *topics.Provider
	registry *HandlerRegistry
	log      zerolog.Logger

	speechType   models.SpeechType
	cursor       int
	themeID      string
	topicOptions []string
	topic        string

	minutesInput textinput.Model
	secondsInput textinput.Model
	focusIndex   int

	hideCountdown bool
	snapshot      timer.Snapshot
	progress      progress.Model

	width  int
	height int
	err    error
}

func NewMainModel(ctx context.Context, opts Options) MainModel {
	settings := opts.Settings
	if !settings.SpeechType.Valid() {
		settings.SpeechType = models.SpeechImpromptu
	}
	provider := opts.Topics
	if provider == nil {
		provider = topics.NewProvider(timeSeed())
	}

	m := MainModel{
		ctx:           ctx,
		state:         StateSelectType,
		store:         opts.Store,
		provider:      provider,
		log:           util.Logger("tui"),
		speechType:    settings.SpeechType,
		themeID:       config.DefaultTheme,
		hideCountdown: settings.HideCountdown,
		progress:      progress.New(progress.WithSolidFill(string(CurrentTheme.Default)), progress.WithoutPercentage()),
		minutesInput:  newDurationInput("MM"),
		secondsInput:  newDurationInput("SS"),
	}
	m.progress.Width = config.ProgressWidth

	m.runner = practice.NewRunner(ctx, settings.SpeechType, practice.Options{
		Store:         opts.Store,
		Clock:         opts.Clock,
		CustomMinutes: settings.CustomMinutes,
		CustomSeconds: settings.CustomSeconds,
	})
	m.events = m.runner.Engine().Subscribe(eventBuffer)

	themeName := settings.Theme
	if opts.Store != nil {
		if v, ok := opts.Store.GetSetting(ctx, database.SettingTheme); ok {
			themeName = v
		}
		if v, ok := opts.Store.GetSetting(ctx, database.SettingHideCountdown); ok {
			if hide, err := strconv.ParseBool(v); err == nil {
				m.hideCountdown = hide
			}
		}
		if v, ok := opts.Store.GetSetting(ctx, database.SettingLastTheme); ok {
			if _, known := topics.Lookup(v); known {
				m.themeID = v
			}
		}
	}
	SetTheme(themeName)

	m.cursor = indexOfSpeechType(settings.SpeechType)
	m.registry = NewHandlerRegistry()
	registerBindings(m.registry)
	m.snapshot = m.runner.Snapshot()
	return m
}

func newDurationInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = config.FieldCharLimit
	ti.Width = 4
	return ti
}

func indexOfSpeechType(st models.SpeechType) int {
	for i, candidate := range models.SpeechTypes {
		if candidate == st {
			return i
		}
	}
	return 0
}

// Close records any active countdown and releases the engine.
func (m MainModel) Close() {
	m.runner.Close()
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = util.Clamp(msg.Width-8, config.MinProgressWidth, config.ProgressWidth)
		return m, nil

	case EngineEventMsg:
		return m.handleEngineEvent(timer.Event(msg))

	case engineClosedMsg:
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.runner.Close()
			return m, tea.Quit
		}
		if m.state == StateSettings {
			return m.updateSettings(msg)
		}
		next, cmd, handled := m.registry.Handle(m, msg.String())
		if handled {
			next.snapshot = next.runner.Snapshot()
			return next, cmd
		}
	}
	return m, nil
}

func (m MainModel) handleEngineEvent(ev timer.Event) (tea.Model, tea.Cmd) {
	m.runner.Observe(ev)
	m.snapshot = ev.Snapshot
	if ev.Type == timer.EventCompleted && m.state == StateTimer {
		m.state = StateComplete
	}
	return m, waitForEvent(m.events)
}

func (m MainModel) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.err = nil
		m.blurInputs()
		m.state = StateSelectType
		m.cursor = indexOfSpeechType(m.speechType)
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.focusIndex = (m.focusIndex + 1) % 2
		return m, m.focusInputs()
	case tea.KeyEnter:
		return m.applySettings()
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.minutesInput, cmd = m.minutesInput.Update(msg)
	} else {
		m.secondsInput, cmd = m.secondsInput.Update(msg)
	}
	return m, cmd
}

func (m MainModel) applySettings() (tea.Model, tea.Cmd) {
	minutes := util.Clamp(timer.ParseField(m.minutesInput.Value()), 0, config.MaxMinutes)
	seconds := util.Clamp(timer.ParseField(m.secondsInput.Value()), 0, config.MaxSeconds)
	if !m.runner.SetDuration(minutes, seconds) {
		m.err = errors.New("settings can only change while the timer is stopped")
		return m, nil
	}
	m.err = nil
	m.blurInputs()
	m.snapshot = m.runner.Snapshot()
	m.state = StateTimer
	return m, nil
}

func (m *MainModel) openSettings() tea.Cmd {
	configured := m.runner.Snapshot().Configured
	m.minutesInput.SetValue(strconv.Itoa(configured.Minutes))
	m.secondsInput.SetValue(strconv.Itoa(configured.Seconds))
	m.focusIndex = 0
	m.err = nil
	m.state = StateSettings
	return m.focusInputs()
}

func (m *MainModel) focusInputs() tea.Cmd {
	if m.focusIndex == 0 {
		m.secondsInput.Blur()
		return m.minutesInput.Focus()
	}
	m.minutesInput.Blur()
	return m.secondsInput.Focus()
}

func (m *MainModel) blurInputs() {
	m.minutesInput.Blur()
	m.secondsInput.Blur()
}

func (m MainModel) saveSetting(key, value string) {
	if m.store == nil {
		return
	}
	util.LogError("save setting "+key, m.store.SetSetting(m.ctx, key, value))
}
