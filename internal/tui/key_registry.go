package tui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type KeyHandler func(m MainModel, key string) (MainModel, tea.Cmd, bool)

type KeyBinding struct {
	Keys        []string
	Handler     KeyHandler
	Description string
	States      []SessionState
	Priority    int
}

func (b KeyBinding) AppliesToState(state SessionState) bool {
	if len(b.States) == 0 {
		return true
	}
	for _, s := range b.States {
		if s == state {
			return true
		}
	}
	return false
}

func (b KeyBinding) matches(key string) bool {
	for _, k := range b.Keys {
		if k == key {
			return true
		}
	}
	return false
}

type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	r.bindings = append(r.bindings, b)
	sort.SliceStable(r.bindings, func(i, j int) bool {
		return r.bindings[i].Priority > r.bindings[j].Priority
	})
}

func (r *HandlerRegistry) Handle(m MainModel, key string) (MainModel, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if b.matches(key) && b.AppliesToState(m.state) {
			next, cmd, handled := b.Handler(m, key)
			if handled {
				return next, cmd, true
			}
		}
	}
	return m, nil, false
}

func (r *HandlerRegistry) GetBindingsForState(state SessionState) []KeyBinding {
	var out []KeyBinding
	for _, b := range r.bindings {
		if b.AppliesToState(state) {
			out = append(out, b)
		}
	}
	return out
}

// HelpForState renders the footer help line, e.g. "[s]start/pause [x]stop".
func (r *HandlerRegistry) HelpForState(state SessionState) string {
	bindings := r.GetBindingsForState(state)
	seen := make(map[string]bool)
	var parts []string
	for _, b := range bindings {
		if b.Description == "" || len(b.Keys) == 0 {
			continue
		}
		key := b.Keys[0]
		if seen[key] {
			continue
		}
		seen[key] = true
		parts = append(parts, "["+key+"]"+b.Description)
	}
	return strings.Join(parts, " ")
}
