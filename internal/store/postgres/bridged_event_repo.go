package postgres

import (
	"context"
	"fmt"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
)

const bridgedEventColumns = `id, timestamp, transaction_hash, block_number, amount, unique_id, created_at`

var bridgedEventInsert = insertSpec{
	table:    model.TableBridgedEvents,
	columns:  []string{"timestamp", "transaction_hash", "block_number", "amount", "unique_id"},
	conflict: "ON CONFLICT (unique_id) DO NOTHING",
}

type BridgedEventRepo struct {
	db *DB
}

func NewBridgedEventRepo(db *DB) *BridgedEventRepo {
	return &BridgedEventRepo{db: db}
}

func scanBridgedEvent(s rowScanner) (model.OverplusBridgedEvent, error) {
	var e model.OverplusBridgedEvent
	err := s.Scan(&e.ID, &e.Timestamp, &e.TransactionHash, &e.BlockNumber, &e.Amount, &e.UniqueID, &e.CreatedAt)
	return e, err
}

func (r *BridgedEventRepo) BulkUpsert(ctx context.Context, rows []model.OverplusBridgedEvent) (int, error) {
	n, err := bulkInsert(ctx, r.db, bridgedEventInsert, rows, func(e model.OverplusBridgedEvent) []any {
		return []any{e.Timestamp, e.TransactionHash, e.BlockNumber, e.Amount, e.UniqueID}
	})
	if err != nil {
		return 0, fmt.Errorf("bulk upsert bridged events: %w", err)
	}
	return n, nil
}

func (r *BridgedEventRepo) GetByUniqueID(ctx context.Context, uniqueID string) (*model.OverplusBridgedEvent, error) {
	e, err := queryOne(ctx, r.db, scanBridgedEvent,
		`SELECT `+bridgedEventColumns+` FROM overplus_bridged_events WHERE unique_id = $1`, uniqueID)
	if err != nil {
		return nil, fmt.Errorf("get bridged event %s: %w", uniqueID, err)
	}
	return e, nil
}

func (r *BridgedEventRepo) GetAll(ctx context.Context, limit, offset int) ([]model.OverplusBridgedEvent, error) {
	rows, err := queryAll(ctx, r.db, scanBridgedEvent,
		`SELECT `+bridgedEventColumns+` FROM overplus_bridged_events ORDER BY block_number, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bridged events: %w", err)
	}
	return rows, nil
}

func (r *BridgedEventRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, model.TableBridgedEvents)
}
