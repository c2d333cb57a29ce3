package postgres

import (
	"context"
	"fmt"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
)

const rewardColumns = `id, timestamp, calculation_block_current, calculation_block_past,
	daily_pool_reward_0, daily_pool_reward_1, daily_reward,
	total_reward_pool_0, total_reward_pool_1, total_reward, created_at`

type RewardRepo struct {
	db *DB
}

func NewRewardRepo(db *DB) *RewardRepo {
	return &RewardRepo{db: db}
}

func scanReward(s rowScanner) (model.RewardSummary, error) {
	var r model.RewardSummary
	err := s.Scan(&r.ID, &r.Timestamp, &r.CalculationBlockCurrent, &r.CalculationBlockPast,
		&r.DailyPoolReward0, &r.DailyPoolReward1, &r.DailyReward,
		&r.TotalRewardPool0, &r.TotalRewardPool1, &r.TotalReward, &r.CreatedAt)
	return r, err
}

func (r *RewardRepo) Insert(ctx context.Context, row model.RewardSummary) (int64, error) {
	var id int64
	err := r.db.queryRow(ctx, "insert reward summary", `
		INSERT INTO reward_summary (
			timestamp, calculation_block_current, calculation_block_past,
			daily_pool_reward_0, daily_pool_reward_1, daily_reward,
			total_reward_pool_0, total_reward_pool_1, total_reward
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, []any{row.Timestamp, row.CalculationBlockCurrent, row.CalculationBlockPast,
		row.DailyPoolReward0, row.DailyPoolReward1, row.DailyReward,
		row.TotalRewardPool0, row.TotalRewardPool1, row.TotalReward,
	}, &id)
	if err != nil {
		return 0, fmt.Errorf("insert reward summary: %w", err)
	}
	return id, nil
}

func (r *RewardRepo) Latest(ctx context.Context) (*model.RewardSummary, error) {
	row, err := queryOne(ctx, r.db, scanReward,
		`SELECT `+rewardColumns+` FROM reward_summary ORDER BY timestamp DESC, id DESC LIMIT 1`)
	if err != nil {
		return nil, fmt.Errorf("latest reward summary: %w", err)
	}
	return row, nil
}

func (r *RewardRepo) GetAll(ctx context.Context, limit, offset int) ([]model.RewardSummary, error) {
	rows, err := queryAll(ctx, r.db, scanReward,
		`SELECT `+rewardColumns+` FROM reward_summary ORDER BY timestamp DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reward summaries: %w", err)
	}
	return rows, nil
}

func (r *RewardRepo) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, model.TableRewardSummary)
}
