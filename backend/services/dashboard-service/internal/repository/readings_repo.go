package repository

import (
	"context"
	"database/sql"
	"time"

	"voltboard/backend/services/dashboard-service/internal/models"
)

// ReadingsRepository queries the external readings store. The store owns the
// data; this service only reads. Rows with a NULL timestamp or voltage are
// treated as malformed documents: they are dropped locally and reported via
// the dropped count so callers can account for them.
type ReadingsRepository struct {
	db *sql.DB
}

// NewReadingsRepository returns repository.
func NewReadingsRepository(db *sql.DB) *ReadingsRepository {
	return &ReadingsRepository{db: db}
}

// Snapshot returns the most recent limit readings for the collection in
// chronological order. An empty table is a valid result meaning "no data yet",
// not a failure.
func (r *ReadingsRepository) Snapshot(ctx context.Context, collection string, limit int) (models.Table, int, error) {
	const query = `
		SELECT ts, voltage
		FROM readings
		WHERE collection = $1
		ORDER BY ts DESC NULLS LAST
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, collection, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	table, dropped, err := scanReadings(rows)
	if err != nil {
		return nil, 0, err
	}

	// Query is newest-first; the chart wants chronological.
	table.Reverse()
	return table, dropped, nil
}

// Since returns all readings strictly newer than the watermark, ascending.
func (r *ReadingsRepository) Since(ctx context.Context, collection string, watermark time.Time) (models.Table, int, error) {
	const query = `
		SELECT ts, voltage
		FROM readings
		WHERE collection = $1 AND ts > $2
		ORDER BY ts ASC
	`
	rows, err := r.db.QueryContext(ctx, query, collection, watermark)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return scanReadings(rows)
}

func scanReadings(rows *sql.Rows) (models.Table, int, error) {
	var (
		table   models.Table
		dropped int
	)
	for rows.Next() {
		var (
			ts      sql.NullTime
			voltage sql.NullFloat64
		)
		if err := rows.Scan(&ts, &voltage); err != nil {
			return nil, 0, err
		}
		if !ts.Valid || !voltage.Valid {
			dropped++
			continue
		}
		table = append(table, models.Reading{
			Timestamp: ts.Time.UTC(),
			Voltage:   voltage.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return table, dropped, nil
}
