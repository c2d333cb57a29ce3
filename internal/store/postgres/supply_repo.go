package postgres

import (
	"context"
	"fmt"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
)

const supplyColumns = `id, date, circulating_supply_at_that_date, block_timestamp_at_that_date,
	total_claimed_that_day, created_at`

var supplyInsert = insertSpec{
	table: model.TableCirculatingSupply,
	columns: []string{
		"date", "circulating_supply_at_that_date", "block_timestamp_at_that_date", "total_claimed_that_day",
	},
	conflict: `ON CONFLICT (date) DO UPDATE SET
		circulating_supply_at_that_date = EXCLUDED.circulating_supply_at_that_date,
		block_timestamp_at_that_date = EXCLUDED.block_timestamp_at_that_date,
		total_claimed_that_day = EXCLUDED.total_claimed_that_day`,
}

type SupplyRepo struct {
	db *DB
}

func NewSupplyRepo(db *DB) *SupplyRepo {
	return &SupplyRepo{db: db}
}

func scanSupply(s rowScanner) (model.CirculatingSupply, error) {
	var c model.CirculatingSupply
	err := s.Scan(&c.ID, &c.Date, &c.CirculatingSupplyAtThatDate, &c.BlockTimestampAtThatDate,
		&c.TotalClaimedThatDay, &c.CreatedAt)
	return c, err
}

// BulkUpsert writes rows keyed by date; a later row for the same date wins.
// The returned count includes updated rows.
func (r *SupplyRepo) BulkUpsert(ctx context.Context, rows []model.CirculatingSupply) (int, error) {
	rows = dedupeLast(rows, func(c model.CirculatingSupply) string { return c.Date })
	n, err := bulkInsert(ctx, r.db, supplyInsert, rows, func(c model.CirculatingSupply) []any {
		return []any{c.Date, c.CirculatingSupplyAtThatDate, c.BlockTimestampAtThatDate, c.TotalClaimedThatDay}
	})
	if err != nil {
		return 0, fmt.Errorf("bulk upsert circulating supply: %w", err)
	}
	return n, nil
}

func (r *SupplyRepo) GetByDate(ctx context.Context, date string) (*model.CirculatingSupply, error) {
	c, err := queryOne(ctx, r.db, scanSupply,
		`SELECT `+supplyColumns+` FROM circulating_supply WHERE date = $1`, date)
	if err != nil {
		return nil, fmt.Errorf("get circulating supply %s: %w", date, err)
	}
	return c, nil
}

func (r *SupplyRepo) Latest(ctx context.Context) (*model.CirculatingSupply, error) {
	c, err := queryOne(ctx, r.db, scanSupply,
		`SELECT `+supplyColumns+` FROM circulating_supply ORDER BY block_timestamp_at_that_date DESC, id DESC LIMIT 1`)
	if err != nil {
		return nil, fmt.Errorf("latest circulating supply: %w", err)
	}
	return c, nil
}

func (r *SupplyRepo) GetAll(ctx context.Context, limit, offset int) ([]model.CirculatingSupply, error) {
	rows, err := queryAll(ctx, r.db, scanSupply,
		`SELECT `+supplyColumns+` FROM circulating_supply ORDER BY block_timestamp_at_that_date DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list circulating supply: %w", err)
	}
	return rows, nil
}

func (r *SupplyRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, model.TableCirculatingSupply)
}
