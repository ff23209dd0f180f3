package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"view-analytics-service/internal/config"
)

// NewConnection opens a ClickHouse connection from the configured DSN and
// verifies it with a bounded ping.
func NewConnection(ctx context.Context, cfg *config.Config) (clickhouse.Conn, error) {
	opts, err := clickhouse.ParseDSN(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return conn, nil
}
