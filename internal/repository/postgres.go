package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/geoheight/internal/models"
	"github.com/jackc/pgx/v5"
)

const (
	createTableQuery = `
		CREATE TABLE IF NOT EXISTS grid_points (
			dataset   TEXT             NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			latitude  DOUBLE PRECISION NOT NULL,
			height    DOUBLE PRECISION NOT NULL,
			tag       TEXT
		);
	`
	createIndexQuery = `
		CREATE INDEX IF NOT EXISTS grid_points_dataset_idx ON grid_points (dataset);
	`
	deleteDatasetQuery = `DELETE FROM grid_points WHERE dataset = $1;`
	countPointsQuery   = `SELECT count(*) FROM grid_points WHERE dataset = $1;`
)

var pointColumns = []string{"dataset", "longitude", "latitude", "height", "tag"}

// EnsureSchema creates the grid_points table and its index when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create grid_points table: %w", err)
	}
	if _, err := r.db.Exec(ctx, createIndexQuery); err != nil {
		return fmt.Errorf("failed to create grid_points index: %w", err)
	}

	return nil
}

// SavePointCloud replaces the points of dataset with points in a single
// transaction and returns the number of rows copied. Empty tags are stored as
// NULL.
func (r *Repository) SavePointCloud(ctx context.Context, dataset string, points []models.Point) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	tag, err := tx.Exec(ctx, deleteDatasetQuery, dataset)
	if err != nil {
		r.rollback(ctx, tx)
		return 0, fmt.Errorf("failed to delete previous dataset: %w", err)
	}
	if tag.RowsAffected() > 0 {
		r.log.InfoContext(ctx, "Replacing dataset", "dataset", dataset, "previous_points", tag.RowsAffected())
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"grid_points"}, pointColumns,
		pgx.CopyFromSlice(len(points), func(i int) ([]any, error) {
			p := points[i]
			var category any
			if p.Tag != "" {
				category = p.Tag
			}
			return []any{dataset, p.Lon, p.Lat, p.Height, category}, nil
		}),
	)
	if err != nil {
		r.rollback(ctx, tx)
		return 0, fmt.Errorf("failed to copy points: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	r.log.DebugContext(ctx, "Dataset saved", "dataset", dataset, "points", copied)

	return copied, nil
}

// CountPoints returns the number of stored points of dataset.
func (r *Repository) CountPoints(ctx context.Context, dataset string) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, countPointsQuery, dataset).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}

	return n, nil
}

func (r *Repository) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
	}
}
