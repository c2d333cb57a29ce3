package fetcher

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/chain"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/event"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/pipeline/retry"
	"github.com/MorpheusAIs/mor-stats-backend/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Range is a closed block interval.
type Range struct {
	From uint64
	To   uint64
}

// EventSource pages contract logs over block sub-ranges. It keeps no state
// between calls: every sequence it returns can be iterated again and issues
// the same queries.
type EventSource struct {
	reader chain.EventLogReader
	logger *slog.Logger

	retryPolicy *retry.Policy
}

type Option func(*EventSource)

// WithBatchRetry wraps every sub-range query in p. Without it a failing
// sub-range is logged and skipped.
func WithBatchRetry(p retry.Policy) Option {
	return func(s *EventSource) {
		s.retryPolicy = &p
	}
}

func New(reader chain.EventLogReader, logger *slog.Logger, opts ...Option) *EventSource {
	if logger == nil {
		logger = slog.Default()
	}
	s := &EventSource{
		reader: reader,
		logger: logger.With("component", "fetcher"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ranges partitions [from, to] into consecutive closed sub-ranges. The first
// is [from, from+batch]; each next one starts one block after the previous
// end and spans up to batch blocks from that end, capped at to. For from=1000,
// to=1500, batch=200 it yields [1000,1200] [1201,1400] [1401,1500]. It
// returns nil when from > to or batch is zero.
func Ranges(from, to, batch uint64) []Range {
	var out []Range
	for r := range rangeSeq(from, to, batch) {
		out = append(out, r)
	}
	return out
}

func rangeSeq(from, to, batch uint64) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		if batch == 0 || from > to {
			return
		}
		start, anchor := from, from
		for {
			end := to
			if to-anchor > batch {
				end = anchor + batch
			}
			if !yield(Range{From: start, To: end}) || end == to {
				return
			}
			start, anchor = end+1, end
		}
	}
}

// FetchEvents lazily yields eventName logs in [from, to], querying one
// sub-range at a time in block order. A sub-range whose query fails yields no
// events; the failure is logged and counted.
func (s *EventSource) FetchEvents(ctx context.Context, from, to uint64, eventName string, batchSize uint64) iter.Seq[event.RawEvent] {
	return func(yield func(event.RawEvent) bool) {
		ctx, span := tracing.StartSpan(ctx, "fetcher", "fetcher.FetchEvents",
			attribute.String("event", eventName),
			attribute.Int64("from_block", int64(from)),
			attribute.Int64("to_block", int64(to)),
		)
		defer span.End()

		var total, failed int
		for r := range rangeSeq(from, to, batchSize) {
			if ctx.Err() != nil {
				return
			}
			events, err := s.fetchRange(ctx, eventName, r)
			if err != nil {
				failed++
				metrics.FetcherSubrangesTotal.WithLabelValues(eventName, "error").Inc()
				s.logger.Error("sub-range fetch failed, skipping",
					"event", eventName,
					"from_block", r.From,
					"to_block", r.To,
					"error", err,
				)
				continue
			}
			metrics.FetcherSubrangesTotal.WithLabelValues(eventName, "ok").Inc()
			metrics.FetcherEventsFetched.WithLabelValues(eventName).Add(float64(len(events)))
			total += len(events)
			for _, ev := range events {
				if !yield(ev) {
					return
				}
			}
		}
		span.SetAttributes(
			attribute.Int("events", total),
			attribute.Int("failed_subranges", failed),
		)
	}
}

func (s *EventSource) fetchRange(ctx context.Context, eventName string, r Range) ([]event.RawEvent, error) {
	start := time.Now()
	defer func() {
		metrics.FetcherLatency.WithLabelValues(eventName).Observe(time.Since(start).Seconds())
	}()

	call := func(ctx context.Context) ([]event.RawEvent, error) {
		return s.reader.FilterEvents(ctx, eventName, r.From, r.To)
	}
	if s.retryPolicy == nil {
		return call(ctx)
	}
	op := fmt.Sprintf("getLogs %s [%d,%d]", eventName, r.From, r.To)
	return retry.Do(ctx, *s.retryPolicy, op, retry.KindChain, s.logger, call)
}

// EventHeaders returns the lower-cased input names of eventName in ABI order.
func (s *EventSource) EventHeaders(eventName string) ([]string, error) {
	names, err := s.reader.EventInputs(eventName)
	if err != nil {
		return nil, fmt.Errorf("event headers %s: %w", eventName, err)
	}
	headers := make([]string, len(names))
	for i, n := range names {
		headers[i] = strings.ToLower(n)
	}
	return headers, nil
}

// Collect materializes a sequence.
func Collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}
