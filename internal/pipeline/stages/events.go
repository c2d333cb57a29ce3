package stages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/chain"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/event"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/fetcher"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store"
)

// Mapper converts one decoded log into a table row.
type Mapper[T any] func(ev event.RawEvent, ts time.Time) (T, error)

// Upserter writes rows and returns how many were inserted.
type Upserter[T any] func(ctx context.Context, rows []T) (int, error)

// EventDeps are the collaborators shared by every event stage.
type EventDeps struct {
	Source     *fetcher.EventSource
	Blocks     chain.BlockReader
	Watermark  store.WatermarkRepository
	StartBlock uint64
	BatchSize  uint64
	Logger     *slog.Logger
}

// EventStage copies one contract event into one table, resuming one block
// past the highest block already stored.
type EventStage[T any] struct {
	name      string
	eventName string
	table     string
	deps      EventDeps
	mapFn     Mapper[T]
	upsert    Upserter[T]
	logger    *slog.Logger
}

func NewEventStage[T any](name, eventName, table string, deps EventDeps, mapFn Mapper[T], upsert Upserter[T]) *EventStage[T] {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EventStage[T]{
		name:      name,
		eventName: eventName,
		table:     table,
		deps:      deps,
		mapFn:     mapFn,
		upsert:    upsert,
		logger:    logger.With("component", "stage", "stage", name),
	}
}

func NewClaimLockedStage(deps EventDeps, repo store.ClaimLockRepository) *EventStage[model.ClaimLockEvent] {
	return NewEventStage(pipeline.StageClaimLocked, chain.EventUserClaimLocked, model.TableClaimLocked, deps, mapClaimLock, repo.BulkUpsert)
}

func NewStakedStage(deps EventDeps, repo store.StakeEventRepository) *EventStage[model.StakeEvent] {
	return NewEventStage(pipeline.StageStakedEvents, chain.EventUserStaked, repo.Table(), deps, mapStakeEvent, repo.BulkUpsert)
}

func NewWithdrawnStage(deps EventDeps, repo store.StakeEventRepository) *EventStage[model.StakeEvent] {
	return NewEventStage(pipeline.StageWithdrawnEvents, chain.EventUserWithdrawn, repo.Table(), deps, mapStakeEvent, repo.BulkUpsert)
}

func NewBridgedStage(deps EventDeps, repo store.BridgedEventRepository) *EventStage[model.OverplusBridgedEvent] {
	return NewEventStage(pipeline.StageBridgedEvents, chain.EventOverplusBridged, model.TableBridgedEvents, deps, mapBridged, repo.BulkUpsert)
}

func (s *EventStage[T]) Name() string { return s.name }

func (s *EventStage[T]) Run(ctx context.Context) (int, error) {
	head, err := headBlock(ctx, s.deps.Blocks, s.logger)
	if err != nil {
		return 0, err
	}
	start := StartBlock(ctx, s.deps.Watermark, s.table, s.deps.StartBlock, s.logger)
	if start > head {
		s.logger.Info("table is up to date", "table", s.table, "start_block", start, "head", head)
		return 0, nil
	}

	s.logger.Info("fetching events",
		"event", s.eventName,
		"from_block", start,
		"to_block", head,
	)

	clock := newBlockClock(s.deps.Blocks, s.logger)
	var (
		rows    []T
		skipped int
	)
	for ev := range s.deps.Source.FetchEvents(ctx, start, head, s.eventName, s.deps.BatchSize) {
		ts, err := clock.At(ctx, ev.BlockNumber)
		if err != nil {
			return 0, err
		}
		row, err := s.mapFn(ev, ts)
		if err != nil {
			skipped++
			metrics.StageRecordsDegraded.WithLabelValues(s.name, "mapping").Inc()
			s.logger.Warn("skipping undecodable event",
				"event", s.eventName,
				"tx_hash", ev.TxHash,
				"block", ev.BlockNumber,
				"error", err,
			)
			continue
		}
		rows = append(rows, row)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		s.logger.Info("no new events", "event", s.eventName, "skipped", skipped)
		return 0, nil
	}

	inserted, err := s.upsert(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("upsert %s: %w", s.table, err)
	}
	s.logger.Info("events stored",
		"event", s.eventName,
		"fetched", len(rows)+skipped,
		"skipped", skipped,
		"count", inserted,
	)
	return inserted, nil
}
