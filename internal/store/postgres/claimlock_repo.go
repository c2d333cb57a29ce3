package postgres

import (
	"context"
	"fmt"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
)

const claimLockColumns = `id, timestamp, transaction_hash, block_number, pool_id, user_address,
	claim_lock_start, claim_lock_end, created_at`

var claimLockInsert = insertSpec{
	table: model.TableClaimLocked,
	columns: []string{
		"timestamp", "transaction_hash", "block_number", "pool_id", "user_address",
		"claim_lock_start", "claim_lock_end",
	},
	conflict: "ON CONFLICT (transaction_hash) DO NOTHING",
}

type ClaimLockRepo struct {
	db *DB
}

func NewClaimLockRepo(db *DB) *ClaimLockRepo {
	return &ClaimLockRepo{db: db}
}

func scanClaimLock(s rowScanner) (model.ClaimLockEvent, error) {
	var e model.ClaimLockEvent
	err := s.Scan(&e.ID, &e.Timestamp, &e.TransactionHash, &e.BlockNumber, &e.PoolID, &e.UserAddress,
		&e.ClaimLockStart, &e.ClaimLockEnd, &e.CreatedAt)
	return e, err
}

func (r *ClaimLockRepo) BulkUpsert(ctx context.Context, rows []model.ClaimLockEvent) (int, error) {
	n, err := bulkInsert(ctx, r.db, claimLockInsert, rows, func(e model.ClaimLockEvent) []any {
		return []any{e.Timestamp, e.TransactionHash, e.BlockNumber, e.PoolID, e.UserAddress,
			e.ClaimLockStart, e.ClaimLockEnd}
	})
	if err != nil {
		return 0, fmt.Errorf("bulk upsert claim locks: %w", err)
	}
	return n, nil
}

func (r *ClaimLockRepo) GetByTxHash(ctx context.Context, txHash string) (*model.ClaimLockEvent, error) {
	e, err := queryOne(ctx, r.db, scanClaimLock,
		`SELECT `+claimLockColumns+` FROM user_claim_locked WHERE transaction_hash = $1`, txHash)
	if err != nil {
		return nil, fmt.Errorf("get claim lock %s: %w", txHash, err)
	}
	return e, nil
}

func (r *ClaimLockRepo) GetAll(ctx context.Context, limit, offset int) ([]model.ClaimLockEvent, error) {
	rows, err := queryAll(ctx, r.db, scanClaimLock,
		`SELECT `+claimLockColumns+` FROM user_claim_locked ORDER BY block_number, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list claim locks: %w", err)
	}
	return rows, nil
}

func (r *ClaimLockRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, model.TableClaimLocked)
}

func (r *ClaimLockRepo) UniqueUserPools(ctx context.Context) ([]model.ClaimLockEvent, error) {
	rows, err := queryAll(ctx, r.db, scanClaimLock, `
		SELECT DISTINCT ON (user_address, pool_id) `+claimLockColumns+`
		FROM user_claim_locked
		ORDER BY user_address, pool_id, block_number DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("unique claim lock user pools: %w", err)
	}
	return rows, nil
}
