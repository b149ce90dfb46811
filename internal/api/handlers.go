package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/akyairhashvil/SPT/internal/config"
	"github.com/akyairhashvil/SPT/internal/metrics"
	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/topics"
)

type errorResponse struct {
	Message string `json:"message"`
}

type sessionResponse struct {
	ID             string     `json:"id"`
	SpeechType     string     `json:"speechType"`
	Topic          *string    `json:"topic,omitempty"`
	PlannedSeconds int        `json:"plannedSeconds"`
	ElapsedSeconds int        `json:"elapsedSeconds"`
	Custom         bool       `json:"custom"`
	Outcome        string     `json:"outcome"`
	StartedAt      time.Time  `json:"startedAt"`
	EndedAt        *time.Time `json:"endedAt,omitempty"`
}

type statsResponse struct {
	Total        int            `json:"total"`
	Completed    int            `json:"completed"`
	TotalSeconds int            `json:"totalSeconds"`
	ByType       map[string]int `json:"byType"`
}

const maxSessionLimit = 200

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func invalidThemeMessage() string {
	return "Invalid theme. Available themes: " + strings.Join(topics.ThemeIDs(), ", ")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, topics.Themes())
}

// handleTopics returns a theme's full pool, or ?count=n random distinct topics.
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	theme := chi.URLParam(r, "theme")
	if _, ok := topics.Lookup(theme); !ok {
		metrics.IncTopicRequest(theme, false)
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: invalidThemeMessage()})
		return
	}

	var (
		list []string
		err  error
	)
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "count must be a positive integer"})
			return
		}
		list, err = s.cfg.Topics.Random(theme, n)
	} else {
		list, err = topics.All(theme)
	}
	if err != nil {
		if errors.Is(err, topics.ErrUnknownTheme) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: invalidThemeMessage()})
			return
		}
		s.log.Error().Err(err).Str("theme", theme).Msg("topic lookup failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
		return
	}
	metrics.IncTopicRequest(strings.ToLower(strings.TrimSpace(theme)), true)
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "session history is not available"})
		return
	}
	limit := config.HistoryPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "limit must be a positive integer"})
			return
		}
		if n > maxSessionLimit {
			n = maxSessionLimit
		}
		limit = n
	}
	var speechType models.SpeechType
	if raw := r.URL.Query().Get("type"); raw != "" {
		st, ok := models.ParseSpeechType(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: fmt.Sprintf("unknown speech type %q", raw)})
			return
		}
		speechType = st
	}

	var (
		sessions []models.Session
		err      error
	)
	if speechType != "" {
		sessions, err = s.cfg.Store.ListSessionsByType(r.Context(), speechType, limit)
	} else {
		sessions, err = s.cfg.Store.ListSessions(r.Context(), limit)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("list sessions failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionResponse(session))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "session history is not available"})
		return
	}
	stats, err := s.cfg.Store.GetSessionStats(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("session stats failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
		return
	}
	byType := make(map[string]int, len(stats.ByType))
	for st, n := range stats.ByType {
		byType[string(st)] = n
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Total:        stats.Total,
		Completed:    stats.Completed,
		TotalSeconds: stats.TotalSeconds,
		ByType:       byType,
	})
}

func toSessionResponse(s models.Session) sessionResponse {
	return sessionResponse{
		ID:             s.UUID,
		SpeechType:     string(s.SpeechType),
		Topic:          s.Topic,
		PlannedSeconds: s.PlannedSeconds,
		ElapsedSeconds: s.ElapsedSeconds,
		Custom:         s.Custom,
		Outcome:        string(s.Outcome),
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
	}
}
