package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
)

const multiplierColumns = `id, user_claim_locked_start, user_claim_locked_end, timestamp, transaction_hash,
	block_number, pool_id, user_address, multiplier, created_at`

var multiplierInsert = insertSpec{
	table: model.TableUserMultiplier,
	columns: []string{
		"user_claim_locked_start", "user_claim_locked_end", "timestamp", "transaction_hash",
		"block_number", "pool_id", "user_address", "multiplier",
	},
}

// MultiplierRepo stores the user_multiplier snapshot. The table is rebuilt
// as a whole on every run.
type MultiplierRepo struct {
	db *DB
}

func NewMultiplierRepo(db *DB) *MultiplierRepo {
	return &MultiplierRepo{db: db}
}

func scanMultiplier(s rowScanner) (model.UserMultiplier, error) {
	var m model.UserMultiplier
	err := s.Scan(&m.ID, &m.UserClaimLockedStart, &m.UserClaimLockedEnd, &m.Timestamp, &m.TransactionHash,
		&m.BlockNumber, &m.PoolID, &m.UserAddress, &m.Multiplier, &m.CreatedAt)
	return m, err
}

// Recompute truncates the snapshot and inserts rows in the same transaction,
// so readers never observe a partially written table.
func (r *MultiplierRepo) Recompute(ctx context.Context, rows []model.UserMultiplier) (int, error) {
	ctx, cancel := withTimeout(ctx, LongQueryTimeout)
	defer cancel()

	var written int
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "TRUNCATE TABLE user_multiplier RESTART IDENTITY"); err != nil {
			return fmt.Errorf("truncate user_multiplier: %w", err)
		}
		n, err := bulkInsertTx(ctx, tx, multiplierInsert, rows, func(m model.UserMultiplier) []any {
			return []any{m.UserClaimLockedStart, m.UserClaimLockedEnd, m.Timestamp, m.TransactionHash,
				m.BlockNumber, m.PoolID, m.UserAddress, m.Multiplier}
		})
		written = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("recompute multipliers: %w", err)
	}
	return written, nil
}

func (r *MultiplierRepo) GetAll(ctx context.Context, limit, offset int) ([]model.UserMultiplier, error) {
	rows, err := queryAll(ctx, r.db, scanMultiplier,
		`SELECT `+multiplierColumns+` FROM user_multiplier ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list multipliers: %w", err)
	}
	return rows, nil
}

func (r *MultiplierRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, model.TableUserMultiplier)
}

func (r *MultiplierRepo) ActiveUserPools(ctx context.Context) ([]model.UserPool, error) {
	rows, err := queryAll(ctx, r.db, func(s rowScanner) (model.UserPool, error) {
		var p model.UserPool
		err := s.Scan(&p.UserAddress, &p.PoolID)
		return p, err
	}, `
		SELECT DISTINCT user_address, pool_id
		FROM user_multiplier
		WHERE multiplier IS NOT NULL
		ORDER BY user_address, pool_id
	`)
	if err != nil {
		return nil, fmt.Errorf("active user pools: %w", err)
	}
	return rows, nil
}

func (r *MultiplierRepo) GetByUserPool(ctx context.Context, user string, poolID int64) (*model.UserMultiplier, error) {
	m, err := queryOne(ctx, r.db, scanMultiplier,
		`SELECT `+multiplierColumns+` FROM user_multiplier
		 WHERE user_address = $1 AND pool_id = $2
		 ORDER BY block_number DESC, id DESC LIMIT 1`, user, poolID)
	if err != nil {
		return nil, fmt.Errorf("get multiplier %s pool %d: %w", user, poolID, err)
	}
	return m, nil
}
