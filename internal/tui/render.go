package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/akyairhashvil/SPT/internal/config"
	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/timer"
	"github.com/akyairhashvil/SPT/internal/topics"
)

func (m MainModel) View() string {
	var body string
	switch m.state {
	case StateSelectType:
		body = m.renderSpeechTypes()
	case StateSelectTheme:
		body = m.renderThemes()
	case StateSelectTopic:
		body = m.renderTopics()
	case StateSettings:
		body = m.renderSettings()
	case StateTimer:
		body = m.renderTimer()
	case StateComplete:
		body = m.renderComplete()
	}

	var b strings.Builder
	b.WriteString(CurrentTheme.Header.Render("Speech Practice Timer"))
	b.WriteString(CurrentTheme.Dim.Render("  v" + AppVersion))
	b.WriteString("\n\n")
	b.WriteString(body)
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(CurrentTheme.Error.Render(m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(CurrentTheme.Dim.Render(m.footer()))
	return CurrentTheme.Base.Render(b.String())
}

func (m MainModel) footer() string {
	if m.state == StateSettings {
		return "[tab]switch field [enter]apply [esc]back [ctrl+c]quit"
	}
	return m.registry.HelpForState(m.state)
}

func (m MainModel) contentWidth() int {
	if m.width <= 0 {
		return config.TopicWidth
	}
	w := m.width - 6
	if w > config.TopicWidth {
		w = config.TopicWidth
	}
	if w < config.MinProgressWidth {
		w = config.MinProgressWidth
	}
	return w
}

func (m MainModel) renderList(title string, items []string) string {
	var b strings.Builder
	b.WriteString(CurrentTheme.Text.Render(title))
	b.WriteString("\n\n")
	width := m.contentWidth() - 4
	for i, item := range items {
		line := truncateLabel(item, width)
		if i == m.cursor {
			b.WriteString(CurrentTheme.Focused.Render("> " + line))
		} else {
			b.WriteString(CurrentTheme.Text.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m MainModel) renderSpeechTypes() string {
	items := make([]string, 0, len(models.SpeechTypes))
	for _, st := range models.SpeechTypes {
		d := models.DefaultDuration(st)
		items = append(items, fmt.Sprintf("%-11s %s", st.Label(), FormatClock(d.Minutes, d.Seconds)))
	}
	return m.renderList("Choose a speech type", items)
}

func (m MainModel) renderThemes() string {
	themes := topics.Themes()
	items := make([]string, 0, len(themes))
	for _, theme := range themes {
		items = append(items, theme.Name)
	}
	return m.renderList("Choose a topic theme", items)
}

func (m MainModel) renderTopics() string {
	theme, _ := topics.Lookup(m.themeID)
	return m.renderList(fmt.Sprintf("Pick a topic (%s)", theme.Name), m.topicOptions)
}

func (m MainModel) renderSettings() string {
	var b strings.Builder
	b.WriteString(CurrentTheme.Text.Render(fmt.Sprintf("%s speech duration", m.speechType.Label())))
	b.WriteString("\n\n")
	minutes := CurrentTheme.Input.Render(m.minutesInput.View())
	seconds := CurrentTheme.Input.Render(m.secondsInput.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, minutes, CurrentTheme.Text.Render(" : "), seconds))
	b.WriteString("\n")
	d := models.DefaultDuration(m.speechType)
	b.WriteString(CurrentTheme.Dim.Render(fmt.Sprintf("Default %s. Custom durations scale the color thresholds.", FormatClock(d.Minutes, d.Seconds))))
	return b.String()
}

func (m MainModel) renderTimer() string {
	snap := m.snapshot
	color := CurrentTheme.CountdownColor(snap.Color)
	width := m.contentWidth()

	var b strings.Builder
	title := fmt.Sprintf("%s speech", snap.SpeechType.Label())
	if snap.Custom() {
		title += " (custom)"
	}
	b.WriteString(CurrentTheme.Text.Bold(true).Render(title))
	b.WriteString("\n")
	if m.topic != "" {
		b.WriteString(CurrentTheme.Topic.Render(truncateLabel(m.topic, width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	clock := FormatClock(snap.RemainingMinutes, snap.RemainingSeconds)
	if m.hideCountdown {
		clock = "--:--"
	}
	digits := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(clock)
	b.WriteString(digits)
	b.WriteString("\n")

	bar := m.progress
	bar.FullColor = string(color)
	bar.EmptyColor = string(CurrentTheme.Empty)
	b.WriteString(bar.ViewAs(snap.Progress))
	b.WriteString("\n")
	b.WriteString(CurrentTheme.Dim.Render(lifecycleLabel(snap.Lifecycle)))
	b.WriteString("\n")

	if snap.Alert != "" {
		b.WriteString(CurrentTheme.Alert.Render(truncateLabel(snap.Alert, width)))
	}
	b.WriteString("\n")

	th := snap.Thresholds
	thresholds := fmt.Sprintf("green %s  orange %s  red %s",
		FormatSeconds(th.Green), FormatSeconds(th.Orange), FormatSeconds(th.Red))
	if m.width > 0 && m.width < config.CompactModeThreshold {
		thresholds = fmt.Sprintf("%s/%s", FormatSeconds(th.Green), FormatSeconds(th.Orange))
	}
	b.WriteString(CurrentTheme.Dim.Render(thresholds))
	return b.String()
}

func (m MainModel) renderComplete() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Red).Bold(true).Render(timer.AlertTimesUp))
	b.WriteString("\n\n")
	b.WriteString(CurrentTheme.Text.Render(fmt.Sprintf("You completed a %s %s speech.",
		FormatSeconds(m.snapshot.TotalSeconds), strings.ToLower(m.speechType.Label()))))
	if m.topic != "" {
		b.WriteString("\n")
		b.WriteString(CurrentTheme.Topic.Render(truncateLabel(m.topic, m.contentWidth())))
	}
	return b.String()
}

func lifecycleLabel(l timer.Lifecycle) string {
	switch l {
	case timer.LifecycleRunning:
		return "Running"
	case timer.LifecyclePaused:
		return "Paused"
	case timer.LifecycleCompleted:
		return "Completed"
	}
	return "Ready"
}
