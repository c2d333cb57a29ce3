package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
)

const emissionColumns = `id, day, date, capital_emission, code_emission, compute_emission,
	community_emission, protection_emission, total_emission, total_supply, created_at`

var emissionInsert = insertSpec{
	table: model.TableEmissions,
	columns: []string{
		"day", "date", "capital_emission", "code_emission", "compute_emission",
		"community_emission", "protection_emission", "total_emission", "total_supply",
	},
	conflict: `ON CONFLICT (date) DO UPDATE SET
		day = EXCLUDED.day,
		capital_emission = EXCLUDED.capital_emission,
		code_emission = EXCLUDED.code_emission,
		compute_emission = EXCLUDED.compute_emission,
		community_emission = EXCLUDED.community_emission,
		protection_emission = EXCLUDED.protection_emission,
		total_emission = EXCLUDED.total_emission,
		total_supply = EXCLUDED.total_supply`,
}

type EmissionRepo struct {
	db *DB
}

func NewEmissionRepo(db *DB) *EmissionRepo {
	return &EmissionRepo{db: db}
}

func scanEmission(s rowScanner) (model.Emission, error) {
	var e model.Emission
	err := s.Scan(&e.ID, &e.Day, &e.Date, &e.CapitalEmission, &e.CodeEmission, &e.ComputeEmission,
		&e.CommunityEmission, &e.ProtectionEmission, &e.TotalEmission, &e.TotalSupply, &e.CreatedAt)
	return e, err
}

func dateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func (r *EmissionRepo) BulkUpsert(ctx context.Context, rows []model.Emission) (int, error) {
	rows = dedupeLast(rows, func(e model.Emission) string { return dateKey(e.Date) })
	n, err := bulkInsert(ctx, r.db, emissionInsert, rows, func(e model.Emission) []any {
		return []any{e.Day, dateKey(e.Date), e.CapitalEmission, e.CodeEmission, e.ComputeEmission,
			e.CommunityEmission, e.ProtectionEmission, e.TotalEmission, e.TotalSupply}
	})
	if err != nil {
		return 0, fmt.Errorf("bulk upsert emissions: %w", err)
	}
	return n, nil
}

func (r *EmissionRepo) GetByDate(ctx context.Context, date time.Time) (*model.Emission, error) {
	e, err := queryOne(ctx, r.db, scanEmission,
		`SELECT `+emissionColumns+` FROM emissions WHERE date = $1::date`, dateKey(date))
	if err != nil {
		return nil, fmt.Errorf("get emission %s: %w", dateKey(date), err)
	}
	return e, nil
}

func (r *EmissionRepo) UpTo(ctx context.Context, date time.Time) ([]model.Emission, error) {
	rows, err := queryAll(ctx, r.db, scanEmission,
		`SELECT `+emissionColumns+` FROM emissions WHERE date <= $1::date ORDER BY date`, dateKey(date))
	if err != nil {
		return nil, fmt.Errorf("emissions up to %s: %w", dateKey(date), err)
	}
	return rows, nil
}

func (r *EmissionRepo) GetAll(ctx context.Context, limit, offset int) ([]model.Emission, error) {
	rows, err := queryAll(ctx, r.db, scanEmission,
		`SELECT `+emissionColumns+` FROM emissions ORDER BY date LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list emissions: %w", err)
	}
	return rows, nil
}

func (r *EmissionRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, model.TableEmissions)
}
