package postgres

import (
	"context"
	"fmt"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/shopspring/decimal"
)

const stakeEventColumns = `id, timestamp, transaction_hash, block_number, pool_id, user_address, amount, created_at`

// StakeEventRepo serves user_staked_events and user_withdrawn_events.
type StakeEventRepo struct {
	db     *DB
	table  string
	insert insertSpec
}

func NewStakedEventRepo(db *DB) *StakeEventRepo {
	return newStakeEventRepo(db, model.TableStakedEvents)
}

func NewWithdrawnEventRepo(db *DB) *StakeEventRepo {
	return newStakeEventRepo(db, model.TableWithdrawnEvents)
}

func newStakeEventRepo(db *DB, table string) *StakeEventRepo {
	return &StakeEventRepo{
		db:    db,
		table: table,
		insert: insertSpec{
			table:    table,
			columns:  []string{"timestamp", "transaction_hash", "block_number", "pool_id", "user_address", "amount"},
			conflict: "ON CONFLICT (transaction_hash, block_number) DO NOTHING",
		},
	}
}

func (r *StakeEventRepo) Table() string { return r.table }

func scanStakeEvent(s rowScanner) (model.StakeEvent, error) {
	var e model.StakeEvent
	err := s.Scan(&e.ID, &e.Timestamp, &e.TransactionHash, &e.BlockNumber, &e.PoolID, &e.UserAddress,
		&e.Amount, &e.CreatedAt)
	return e, err
}

func (r *StakeEventRepo) BulkUpsert(ctx context.Context, rows []model.StakeEvent) (int, error) {
	n, err := bulkInsert(ctx, r.db, r.insert, rows, func(e model.StakeEvent) []any {
		return []any{e.Timestamp, e.TransactionHash, e.BlockNumber, e.PoolID, e.UserAddress, e.Amount}
	})
	if err != nil {
		return 0, fmt.Errorf("bulk upsert %s: %w", r.table, err)
	}
	return n, nil
}

func (r *StakeEventRepo) GetByNaturalKey(ctx context.Context, txHash string, blockNumber int64) (*model.StakeEvent, error) {
	e, err := queryOne(ctx, r.db, scanStakeEvent,
		`SELECT `+stakeEventColumns+` FROM `+r.table+` WHERE transaction_hash = $1 AND block_number = $2`,
		txHash, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("get %s %s@%d: %w", r.table, txHash, blockNumber, err)
	}
	return e, nil
}

func (r *StakeEventRepo) GetAll(ctx context.Context, limit, offset int) ([]model.StakeEvent, error) {
	rows, err := queryAll(ctx, r.db, scanStakeEvent,
		`SELECT `+stakeEventColumns+` FROM `+r.table+` ORDER BY block_number, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	return rows, nil
}

func (r *StakeEventRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.table)
}

func (r *StakeEventRepo) SumByPool(ctx context.Context, poolID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.queryRow(ctx, "sum "+r.table,
		`SELECT COALESCE(SUM(amount), 0) FROM `+r.table+` WHERE pool_id = $1`, []any{poolID}, &sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s pool %d: %w", r.table, poolID, err)
	}
	return sum, nil
}

func (r *StakeEventRepo) UniqueUsers(ctx context.Context, poolID int64) (int64, error) {
	var n int64
	err := r.db.queryRow(ctx, "unique users "+r.table,
		`SELECT COUNT(DISTINCT user_address) FROM `+r.table+` WHERE pool_id = $1`, []any{poolID}, &n)
	if err != nil {
		return 0, fmt.Errorf("unique users %s pool %d: %w", r.table, poolID, err)
	}
	return n, nil
}
