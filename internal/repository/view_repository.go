package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"view-analytics-service/internal/model"
)

// ViewRepository defines database operations for raw view sessions.
type ViewRepository interface {
	// InsertBatch persists a batch of view rows (creates and progress
	// updates alike) in one bulk insert.
	InsertBatch(ctx context.Context, rows []model.ViewSession) error

	// FetchPlayerSessions returns the collapsed view sessions of one player.
	FetchPlayerSessions(ctx context.Context, playerID string) ([]model.ViewSession, error)

	// FetchAllSessions returns the collapsed view sessions of all players.
	FetchAllSessions(ctx context.Context) ([]model.ViewSession, error)
}

type viewRepository struct {
	conn clickhouse.Conn
}

// NewViewRepository creates a ViewRepository backed by ClickHouse.
func NewViewRepository(conn clickhouse.Conn) ViewRepository {
	return &viewRepository{conn: conn}
}

const insertViewQuery = `
	INSERT INTO view_events (player_id, session_id, viewer_id, viewer_email, viewer_name, watch_duration, total_duration, created_at, watched_at)
`

// Rows with the same (player_id, session_id) are versions of one session.
// watch_duration is monotonic so max() is the latest sample. Every row
// version carries the viewer identity and the session start, so these
// aggregates hold even after background merges drop older versions.
const selectSessionsQuery = `
	SELECT
		player_id,
		session_id,
		max(viewer_id)      AS viewer_id,
		max(viewer_email)   AS viewer_email,
		max(viewer_name)    AS viewer_name,
		max(watch_duration) AS watch_duration,
		max(total_duration) AS total_duration,
		min(created_at)     AS created_at,
		max(watched_at)     AS watched_at
	FROM view_events
`

const selectPlayerSessionsQuery = selectSessionsQuery + `
	WHERE player_id = ?
	GROUP BY player_id, session_id
`

const selectAllSessionsQuery = selectSessionsQuery + `
	GROUP BY player_id, session_id
`

type viewSessionRow struct {
	PlayerID      string    `ch:"player_id"`
	SessionID     string    `ch:"session_id"`
	ViewerID      string    `ch:"viewer_id"`
	ViewerEmail   string    `ch:"viewer_email"`
	ViewerName    string    `ch:"viewer_name"`
	WatchDuration float64   `ch:"watch_duration"`
	TotalDuration float64   `ch:"total_duration"`
	CreatedAt     time.Time `ch:"created_at"`
	WatchedAt     time.Time `ch:"watched_at"`
}

func (r *viewRepository) InsertBatch(ctx context.Context, rows []model.ViewSession) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertViewQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, row := range rows {
		err := batch.Append(
			row.PlayerID,
			row.SessionID,
			row.ViewerID,
			row.ViewerEmail,
			row.ViewerName,
			row.WatchDuration,
			row.TotalDuration,
			row.CreatedAt,
			row.WatchedAt,
		)
		if err != nil {
			return fmt.Errorf("append batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func (r *viewRepository) FetchPlayerSessions(ctx context.Context, playerID string) ([]model.ViewSession, error) {
	var rows []viewSessionRow
	if err := r.conn.Select(ctx, &rows, selectPlayerSessionsQuery, playerID); err != nil {
		return nil, fmt.Errorf("fetch player sessions: %w", err)
	}
	return toSessions(rows), nil
}

func (r *viewRepository) FetchAllSessions(ctx context.Context) ([]model.ViewSession, error) {
	var rows []viewSessionRow
	if err := r.conn.Select(ctx, &rows, selectAllSessionsQuery); err != nil {
		return nil, fmt.Errorf("fetch sessions: %w", err)
	}
	return toSessions(rows), nil
}

func toSessions(rows []viewSessionRow) []model.ViewSession {
	sessions := make([]model.ViewSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, model.ViewSession{
			PlayerID:      row.PlayerID,
			SessionID:     row.SessionID,
			ViewerID:      row.ViewerID,
			ViewerEmail:   row.ViewerEmail,
			ViewerName:    row.ViewerName,
			WatchDuration: row.WatchDuration,
			TotalDuration: row.TotalDuration,
			CreatedAt:     row.CreatedAt,
			WatchedAt:     row.WatchedAt,
		})
	}
	return sessions
}
