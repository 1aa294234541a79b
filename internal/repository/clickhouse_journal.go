package repository

import (
	"context"
	"fmt"
	"time"

	"MarketGate/internal/domain/models"
	pkgch "MarketGate/pkg/clickhouse"
)

// ClickHouseJournal records ticks into a MergeTree table.
type ClickHouseJournal struct {
	client *pkgch.Client
	table  string
}

// NewClickHouseJournal creates a ClickHouse-backed tick journal.
func NewClickHouseJournal(client *pkgch.Client, table string) *ClickHouseJournal {
	return &ClickHouseJournal{client: client, table: table}
}

// Record inserts one tick.
func (j *ClickHouseJournal) Record(ctx context.Context, q *models.Quote) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (symbol, t, price, volume) VALUES (?, ?, ?, ?)",
		j.table,
	)
	if _, err := j.client.DB().ExecContext(ctx, query,
		q.Symbol, time.Unix(q.Timestamp, 0), q.Price, q.Volume,
	); err != nil {
		return fmt.Errorf("clickhouse insert: %w", err)
	}
	return nil
}

// Close closes the client connection pool.
func (j *ClickHouseJournal) Close() error {
	return j.client.Close()
}
