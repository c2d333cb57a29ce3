package stages

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/MorpheusAIs/mor-stats-backend/internal/chain"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/fetcher"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store"
)

var _ pipeline.Stage = (*SupplyStage)(nil)

// SupplyStage extends the circulating supply history from the newest stored
// day by replaying UserClaimed events.
type SupplyStage struct {
	source    *fetcher.EventSource
	blocks    chain.BlockReader
	locator   BlockLocator
	supply    store.SupplyRepository
	batchSize uint64
	logger    *slog.Logger
}

func NewSupplyStage(source *fetcher.EventSource, blocks chain.BlockReader, locator BlockLocator, supply store.SupplyRepository, batchSize uint64, logger *slog.Logger) *SupplyStage {
	return &SupplyStage{
		source:    source,
		blocks:    blocks,
		locator:   locator,
		supply:    supply,
		batchSize: batchSize,
		logger:    logger.With("component", "stage", "stage", pipeline.StageCirculatingSupply),
	}
}

func (s *SupplyStage) Name() string { return pipeline.StageCirculatingSupply }

func (s *SupplyStage) Run(ctx context.Context) (int, error) {
	baseline, err := s.supply.Latest(ctx)
	if err != nil {
		return 0, fmt.Errorf("load supply baseline: %w", err)
	}
	if baseline == nil {
		s.logger.Error("no circulating supply baseline stored, import one first")
		return 0, nil
	}

	anchor, err := s.locator.BlockAt(ctx, baseline.BlockTimestampAtThatDate)
	if err != nil {
		return 0, fmt.Errorf("block for baseline %s: %w", baseline.Date, err)
	}
	start := anchor + 1
	head, err := headBlock(ctx, s.blocks, s.logger)
	if err != nil {
		return 0, err
	}
	if start > head {
		s.logger.Info("supply is up to date", "start_block", start, "head", head)
		return 0, nil
	}

	s.logger.Info("fetching claims",
		"baseline_date", baseline.Date,
		"from_block", start,
		"to_block", head,
	)

	clock := newBlockClock(s.blocks, s.logger)
	running := baseline.CirculatingSupplyAtThatDate
	days := make(map[string]*model.CirculatingSupply)
	var order []string

	for ev := range s.source.FetchEvents(ctx, start, head, chain.EventUserClaimed, s.batchSize) {
		ts, err := clock.At(ctx, ev.BlockNumber)
		if err != nil {
			return 0, err
		}
		if !ts.After(baseline.BlockTimestampAtThatDate) {
			continue
		}
		amount, err := claimedAmount(ev)
		if err != nil {
			metrics.StageRecordsDegraded.WithLabelValues(pipeline.StageCirculatingSupply, "mapping").Inc()
			s.logger.Warn("skipping undecodable claim", "tx_hash", ev.TxHash, "error", err)
			continue
		}
		running = running.Add(amount)

		ts = ts.UTC()
		date := ts.Format(model.DateLayout)
		day, ok := days[date]
		if !ok {
			day = &model.CirculatingSupply{Date: date, TotalClaimedThatDay: amount}
			if date == baseline.Date {
				day.TotalClaimedThatDay = baseline.TotalClaimedThatDay.Add(amount)
			}
			days[date] = day
			order = append(order, date)
		} else {
			day.TotalClaimedThatDay = day.TotalClaimedThatDay.Add(amount)
		}
		day.CirculatingSupplyAtThatDate = running
		if ts.After(day.BlockTimestampAtThatDate) {
			day.BlockTimestampAtThatDate = ts
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if len(days) == 0 {
		s.logger.Info("no new claims")
		return 0, nil
	}

	rows := make([]model.CirculatingSupply, 0, len(days))
	for _, date := range order {
		rows = append(rows, *days[date])
	}
	slices.SortFunc(rows, func(a, b model.CirculatingSupply) int {
		return a.BlockTimestampAtThatDate.Compare(b.BlockTimestampAtThatDate)
	})

	n, err := s.supply.BulkUpsert(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("upsert circulating supply: %w", err)
	}
	s.logger.Info("circulating supply updated",
		"days", len(rows),
		"supply", running.String(),
		"count", n,
	)
	return n, nil
}
