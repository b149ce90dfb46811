package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/akyairhashvil/SPT/internal/timer"
)

type Theme struct {
	Name      string
	Base      lipgloss.Style
	Border    lipgloss.Color
	Header    lipgloss.Style
	Text      lipgloss.Style
	Topic     lipgloss.Style
	Focused   lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
	Alert     lipgloss.Style
	Input     lipgloss.Style
	Error     lipgloss.Style

	// Countdown colors per threshold state.
	Default lipgloss.Color
	Green   lipgloss.Color
	Orange  lipgloss.Color
	Red     lipgloss.Color
	Empty   lipgloss.Color
}

var Themes = map[string]Theme{
	"dark": {
		Name:      "Dark",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("63"),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Topic:     lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Italic(true),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Alert:     lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("57")).Bold(true).Padding(0, 1),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1).Width(8),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Default:   lipgloss.Color("252"),
		Green:     lipgloss.Color("42"),
		Orange:    lipgloss.Color("214"),
		Red:       lipgloss.Color("196"),
		Empty:     lipgloss.Color("238"),
	},
	"light": {
		Name:      "Light",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("25"),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("125")).Bold(true),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		Topic:     lipgloss.NewStyle().Foreground(lipgloss.Color("24")).Italic(true),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("125")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Alert:     lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")).Bold(true).Padding(0, 1),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("125")).Padding(0, 1).Width(8),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		Default:   lipgloss.Color("235"),
		Green:     lipgloss.Color("28"),
		Orange:    lipgloss.Color("166"),
		Red:       lipgloss.Color("160"),
		Empty:     lipgloss.Color("252"),
	},
}

// CurrentTheme holds the active theme.
var CurrentTheme = Themes["dark"]

// SetTheme switches the active theme. Unknown names are ignored.
func SetTheme(name string) bool {
	if t, ok := Themes[name]; ok {
		CurrentTheme = t
		return true
	}
	return false
}

// CountdownColor maps a threshold state to the active theme's color.
func (t Theme) CountdownColor(state timer.ColorState) lipgloss.Color {
	switch state {
	case timer.ColorGreen:
		return t.Green
	case timer.ColorOrange:
		return t.Orange
	case timer.ColorRed:
		return t.Red
	}
	return t.Default
}

func themeKey(t Theme) string {
	for key, candidate := range Themes {
		if candidate.Name == t.Name {
			return key
		}
	}
	return "dark"
}
