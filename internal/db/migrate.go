package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
//
// view_events holds one row per write; creates and progress updates for the
// same session share the (player_id, session_id) key and each carry the full
// session state, so reads collapse them to one logical session and the merge
// tree can deduplicate down to the latest version in the background.
func RunMigrations(ctx context.Context, conn clickhouse.Conn) error {
	err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS view_events
(
	player_id       String,
	session_id      String,
	viewer_id       String DEFAULT '',
	viewer_email    String DEFAULT '',
	viewer_name     String DEFAULT '',
	watch_duration  Float64,
	total_duration  Float64,
	created_at      DateTime64(3, 'UTC'),
	watched_at      DateTime64(3, 'UTC')
)
ENGINE = ReplacingMergeTree(watched_at)
PARTITION BY toYYYYMM(created_at)
ORDER BY (player_id, session_id)
SETTINGS
    index_granularity = 8192;
`)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	err = conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS players
(
	id              String,
	name            String,
	position        String,
	position_fr     String,
	club            String,
	region          String,
	image           String,
	rating          Float64,
	age             UInt8,
	video_url       String DEFAULT '',
	updated_at      DateTime DEFAULT now()
)
ENGINE = ReplacingMergeTree(updated_at)
ORDER BY id;
`)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
