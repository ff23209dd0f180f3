package repository

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"view-analytics-service/internal/model"
)

// PlayerRepository reads the denormalized player catalog used for the
// leaderboard join. The catalog is maintained by the main application; this
// service never writes to it.
type PlayerRepository interface {
	FetchSummaries(ctx context.Context, ids []string) (map[string]model.PlayerSummary, error)
}

type playerRepository struct {
	conn clickhouse.Conn
}

// NewPlayerRepository creates a PlayerRepository backed by ClickHouse.
func NewPlayerRepository(conn clickhouse.Conn) PlayerRepository {
	return &playerRepository{conn: conn}
}

const selectSummariesQuery = `
	SELECT id, name, position, position_fr, club, region, image, rating, age, video_url
	FROM players FINAL
	WHERE id IN (?)
`

type playerSummaryRow struct {
	ID         string  `ch:"id"`
	Name       string  `ch:"name"`
	Position   string  `ch:"position"`
	PositionFr string  `ch:"position_fr"`
	Club       string  `ch:"club"`
	Region     string  `ch:"region"`
	Image      string  `ch:"image"`
	Rating     float64 `ch:"rating"`
	Age        uint8   `ch:"age"`
	VideoURL   string  `ch:"video_url"`
}

func (r *playerRepository) FetchSummaries(ctx context.Context, ids []string) (map[string]model.PlayerSummary, error) {
	if len(ids) == 0 {
		return map[string]model.PlayerSummary{}, nil
	}

	var rows []playerSummaryRow
	if err := r.conn.Select(ctx, &rows, selectSummariesQuery, ids); err != nil {
		return nil, fmt.Errorf("fetch player summaries: %w", err)
	}

	summaries := make(map[string]model.PlayerSummary, len(rows))
	for _, row := range rows {
		summaries[row.ID] = model.PlayerSummary{
			ID:         row.ID,
			Name:       row.Name,
			Position:   row.Position,
			PositionFr: row.PositionFr,
			Club:       row.Club,
			Region:     row.Region,
			Image:      row.Image,
			Rating:     row.Rating,
			Age:        row.Age,
			VideoURL:   row.VideoURL,
		}
	}
	return summaries, nil
}
