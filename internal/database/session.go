package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/util"
)

const sessionColumns = `id, uuid, speech_type, topic, planned_seconds, elapsed_seconds, custom, outcome, started_at, ended_at`

// CreateSession inserts a new in-progress session. UUID, StartedAt and
// Outcome are filled in when empty.
func (d *Database) CreateSession(ctx context.Context, s models.Session) (models.Session, error) {
	if s.UUID == "" {
		s.UUID = uuid.NewString()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	s.StartedAt = s.StartedAt.UTC()
	if s.Outcome == "" {
		s.Outcome = models.OutcomeInProgress
	}
	if !s.SpeechType.Valid() {
		return models.Session{}, wrapSessionErr("create", 0, fmt.Errorf("invalid speech type %q", s.SpeechType))
	}

	res, err := d.DB.ExecContext(ctx, `
		INSERT INTO sessions (uuid, speech_type, topic, planned_seconds, elapsed_seconds, custom, outcome, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UUID, string(s.SpeechType), nullableString(s.Topic), s.PlannedSeconds, s.ElapsedSeconds,
		util.BoolToInt(s.Custom), string(s.Outcome), s.StartedAt, nullableTime(s.EndedAt))
	if err != nil {
		return models.Session{}, wrapSessionErr("create", 0, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Session{}, wrapSessionErr("create", 0, err)
	}
	s.ID = id
	return s, nil
}

// FinishSession records the outcome of an in-progress session.
func (d *Database) FinishSession(ctx context.Context, id int64, outcome models.SessionOutcome, elapsedSeconds int, endedAt time.Time) error {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	res, err := d.DB.ExecContext(ctx, `
		UPDATE sessions SET outcome = ?, elapsed_seconds = ?, ended_at = ?
		WHERE id = ? AND outcome = ?`,
		string(outcome), elapsedSeconds, endedAt.UTC(), id, string(models.OutcomeInProgress))
	if err != nil {
		return wrapSessionErr("finish", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapSessionErr("finish", id, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := d.GetSession(ctx, id); err != nil {
		return err
	}
	return wrapSessionErr("finish", id, ErrSessionFinished)
}

// AbandonOpenSessions marks sessions left in progress by a previous run.
func (d *Database) AbandonOpenSessions(ctx context.Context, at time.Time) (int64, error) {
	res, err := d.DB.ExecContext(ctx,
		"UPDATE sessions SET outcome = ?, ended_at = ? WHERE outcome = ?",
		string(models.OutcomeAbandoned), at.UTC(), string(models.OutcomeInProgress))
	if err != nil {
		return 0, wrapSessionErr("abandon", 0, err)
	}
	return res.RowsAffected()
}

// GetSession loads one session by row id.
func (d *Database) GetSession(ctx context.Context, id int64) (models.Session, error) {
	row := d.DB.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, wrapSessionErr("get", id, ErrSessionNotFound)
	}
	return s, wrapSessionErr("get", id, err)
}

// GetSessionByUUID loads one session by its public identifier.
func (d *Database) GetSessionByUUID(ctx context.Context, id string) (models.Session, error) {
	row := d.DB.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE uuid = ?", id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, wrapSessionErr("get", 0, ErrSessionNotFound)
	}
	return s, wrapSessionErr("get", 0, err)
}

// ListSessions returns the most recent sessions, newest first. limit <= 0
// returns every session.
func (d *Database) ListSessions(ctx context.Context, limit int) ([]models.Session, error) {
	return d.listSessions(ctx, "", limit)
}

// ListSessionsByType is ListSessions restricted to one speech type. The
// limit applies after filtering.
func (d *Database) ListSessionsByType(ctx context.Context, speechType models.SpeechType, limit int) ([]models.Session, error) {
	if !speechType.Valid() {
		return nil, wrapSessionErr("list", 0, fmt.Errorf("invalid speech type %q", speechType))
	}
	return d.listSessions(ctx, speechType, limit)
}

func (d *Database) listSessions(ctx context.Context, speechType models.SpeechType, limit int) ([]models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions"
	args := []interface{}{}
	if speechType != "" {
		query += " WHERE speech_type = ?"
		args = append(args, string(speechType))
	}
	query += " ORDER BY started_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSessionErr("list", 0, err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrapSessionErr("list", 0, err)
		}
		sessions = append(sessions, s)
	}
	return sessions, wrapSessionErr("list", 0, rows.Err())
}

// GetSessionStats aggregates every finished session.
func (d *Database) GetSessionStats(ctx context.Context) (models.SessionStats, error) {
	stats := models.SessionStats{ByType: map[models.SpeechType]int{}}
	rows, err := d.DB.QueryContext(ctx, `
		SELECT speech_type,
			COUNT(*),
			SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
			COALESCE(SUM(elapsed_seconds), 0)
		FROM sessions
		WHERE outcome != ?
		GROUP BY speech_type`, string(models.OutcomeCompleted), string(models.OutcomeInProgress))
	if err != nil {
		return stats, wrapSessionErr("stats", 0, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			speechType string
			total      int
			completed  int
			seconds    int
		)
		if err := rows.Scan(&speechType, &total, &completed, &seconds); err != nil {
			return stats, wrapSessionErr("stats", 0, err)
		}
		stats.ByType[models.SpeechType(speechType)] = total
		stats.Total += total
		stats.Completed += completed
		stats.TotalSeconds += seconds
	}
	return stats, wrapSessionErr("stats", 0, rows.Err())
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (models.Session, error) {
	var (
		s          models.Session
		speechType string
		outcome    string
		custom     int
		topic      sql.NullString
		endedAt    sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.UUID, &speechType, &topic, &s.PlannedSeconds, &s.ElapsedSeconds,
		&custom, &outcome, &s.StartedAt, &endedAt); err != nil {
		return models.Session{}, err
	}
	s.SpeechType = models.SpeechType(speechType)
	s.Outcome = models.SessionOutcome(outcome)
	s.Custom = util.IntToBool(custom)
	s.Topic = stringPtr(topic)
	s.EndedAt = timePtr(endedAt)
	return s, nil
}
