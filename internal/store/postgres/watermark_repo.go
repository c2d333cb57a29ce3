package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
)

// WatermarkRepo derives stage watermarks from MAX(block_number) of the event
// tables. No separate cursor table is kept.
type WatermarkRepo struct {
	db *DB
}

func NewWatermarkRepo(db *DB) *WatermarkRepo {
	return &WatermarkRepo{db: db}
}

// LastProcessedBlock returns false when the table is empty. Only event tables
// are accepted since the name is interpolated into the query.
func (r *WatermarkRepo) LastProcessedBlock(ctx context.Context, table string) (uint64, bool, error) {
	if !model.IsEventTable(table) {
		return 0, false, fmt.Errorf("watermark: unknown event table %q", table)
	}

	var maxBlock sql.NullInt64
	if err := r.db.queryRow(ctx, "watermark "+table, "SELECT MAX(block_number) FROM "+table, nil, &maxBlock); err != nil {
		return 0, false, fmt.Errorf("watermark %s: %w", table, err)
	}
	if !maxBlock.Valid || maxBlock.Int64 < 0 {
		return 0, false, nil
	}
	return uint64(maxBlock.Int64), true, nil
}
