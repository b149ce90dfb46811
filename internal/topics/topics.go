// Package topics supplies themed discussion topics for impromptu speeches.
package topics

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// ErrUnknownTheme is returned for a theme identifier with no topic pool.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme identifies a topic pool.
type Theme struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var themes = []Theme{
	{ID: "business", Name: "Business & Leadership"},
	{ID: "technology", Name: "Technology & Innovation"},
	{ID: "social", Name: "Social Issues"},
	{ID: "philosophy", Name: "Philosophy & Ethics"},
	{ID: "environment", Name: "Environment & Sustainability"},
}

var pools = map[string][]string{
	"business": {
		"How can small businesses compete with large corporations in today's market?",
		"What leadership style is most effective in times of crisis?",
		"Discuss the ethical implications of outsourcing labor to other countries.",
		"How has remote work changed the business landscape?",
		"Should companies prioritize profit or social responsibility?",
	},
	"technology": {
		"How has artificial intelligence changed the workplace in the last decade?",
		"Discuss the ethical implications of automation replacing human jobs.",
		"What role should technology play in modern education?",
		"Is remote work the future of employment?",
		"How can we balance technological progress with privacy concerns?",
	},
	"social": {
		"What can individuals do to combat systemic inequalities?",
		"How has social media influenced modern activism?",
		"Discuss the importance of mental health awareness in today's society.",
		"What role should government play in ensuring equal opportunities?",
		"How has the concept of community changed in the digital age?",
	},
	"philosophy": {
		"Is it more important to be happy or to live a meaningful life?",
		"What defines a 'good' person in today's world?",
		"How should society balance individual rights with collective responsibility?",
		"Is there such a thing as objective truth?",
		"How does technology affect our understanding of what it means to be human?",
	},
	"environment": {
		"What personal sacrifices should individuals make to combat climate change?",
		"How can developing countries balance economic growth with environmental protection?",
		"Discuss the ethical implications of consuming animal products.",
		"What role should governments play in environmental protection?",
		"How can we encourage sustainable practices in everyday life?",
	},
}

// Themes returns every theme in display order.
func Themes() []Theme {
	return append([]Theme(nil), themes...)
}

// ThemeIDs returns the identifiers of every theme.
func ThemeIDs() []string {
	ids := make([]string, 0, len(themes))
	for _, t := range themes {
		ids = append(ids, t.ID)
	}
	return ids
}

// Lookup returns the theme for id.
func Lookup(id string) (Theme, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// All returns the full topic pool for a theme.
func All(theme string) ([]string, error) {
	t, ok := Lookup(theme)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	return append([]string(nil), pools[t.ID]...), nil
}

// Provider draws random topics. The zero value is not usable; use NewProvider.
type Provider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewProvider returns a Provider seeded from seed.
func NewProvider(seed int64) *Provider {
	return &Provider{rng: rand.New(rand.NewSource(seed))}
}

var defaultProvider = NewProvider(time.Now().UnixNano())

// Random draws n distinct topics from a theme using the package provider.
func Random(theme string, n int) ([]string, error) {
	return defaultProvider.Random(theme, n)
}

// Random draws n distinct topics from theme. n is capped at the pool size.
func (p *Provider) Random(theme string, n int) ([]string, error) {
	pool, err := All(theme)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []string{}, nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	p.mu.Lock()
	p.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	p.mu.Unlock()
	return pool[:n], nil
}
