package database

import (
	"context"
	"time"

	"github.com/akyairhashvil/SPT/internal/models"
)

// SessionStore defines session history operations.
//
//go:generate mockgen -source=interface.go -destination=mocks/mock_store.go -package=mocks
type SessionStore interface {
	CreateSession(ctx context.Context, s models.Session) (models.Session, error)
	FinishSession(ctx context.Context, id int64, outcome models.SessionOutcome, elapsedSeconds int, endedAt time.Time) error
	ListSessions(ctx context.Context, limit int) ([]models.Session, error)
	ListSessionsByType(ctx context.Context, speechType models.SpeechType, limit int) ([]models.Session, error)
	GetSessionStats(ctx context.Context) (models.SessionStats, error)
}

// SettingsStore defines key/value preference operations.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, bool)
	SetSetting(ctx context.Context, key, value string) error
}

// Store combines all store interfaces.
type Store interface {
	SessionStore
	SettingsStore
}

var _ Store = (*Database)(nil)
