// Package importer loads the static emission schedule and the circulating
// supply baseline from spreadsheet exports. Rows are upserted by date.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/model"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/MorpheusAIs/mor-stats-backend/internal/store"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindEmissions Kind = "emissions"
	KindSupply    Kind = "supply"
)

// Emission schedule columns.
const (
	colDay                = "Day"
	colDate               = "Date"
	colCapitalEmission    = "Capital Emission"
	colCodeEmission       = "Code Emission"
	colComputeEmission    = "Compute Emission"
	colCommunityEmission  = "Community Emission"
	colProtectionEmission = "Protection Emission"
	colTotalEmission      = "Total Emission"
	colTotalSupply        = "Total Supply"
)

// Circulating supply columns.
const (
	colSupplyDate     = "date"
	colCirculating    = "circulating_supply_at_that_date"
	colBlockTimestamp = "block_timestamp_at_that_date"
	colClaimedThatDay = "total_claimed_that_day"
)

// emissionDateLayouts are tried in order.
var emissionDateLayouts = []string{time.DateOnly, model.DateLayout}

var ErrMissingColumn = errors.New("importer: missing required column")

// Result counts the rows of one import.
type Result struct {
	Read     int
	Skipped  int
	Upserted int
}

type Importer struct {
	emissions store.EmissionRepository
	supply    store.SupplyRepository
	logger    *slog.Logger
}

func New(emissions store.EmissionRepository, supply store.SupplyRepository, logger *slog.Logger) *Importer {
	return &Importer{
		emissions: emissions,
		supply:    supply,
		logger:    logger.With("component", "importer"),
	}
}

// DelimiterFor returns ',' for .csv files and tab for anything else.
func DelimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ','
	}
	return '\t'
}

// ImportFile imports path as kind.
func (i *Importer) ImportFile(ctx context.Context, kind Kind, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	delim := DelimiterFor(path)
	switch kind {
	case KindEmissions:
		return i.ImportEmissions(ctx, f, delim)
	case KindSupply:
		return i.ImportSupply(ctx, f, delim)
	default:
		return Result{}, fmt.Errorf("importer: unknown kind %q", kind)
	}
}

// ImportEmissions reads the emission schedule. Rows with an unparseable date
// or value are skipped; absent category columns count as zero.
func (i *Importer) ImportEmissions(ctx context.Context, r io.Reader, delim rune) (Result, error) {
	var res Result
	var rows []model.Emission
	err := readTable(r, delim, []string{colDate}, func(line int, rec record) {
		res.Read++
		e, err := parseEmission(rec)
		if err != nil {
			res.Skipped++
			i.logger.Warn("skipping emission row", "line", line, "error", err)
			return
		}
		rows = append(rows, e)
	})
	if err != nil {
		return res, err
	}
	return i.finish(ctx, KindEmissions, res, len(rows), func() (int, error) {
		return i.emissions.BulkUpsert(ctx, rows)
	})
}

// ImportSupply reads the circulating supply baseline.
func (i *Importer) ImportSupply(ctx context.Context, r io.Reader, delim rune) (Result, error) {
	var res Result
	var rows []model.CirculatingSupply
	required := []string{colSupplyDate, colCirculating, colBlockTimestamp, colClaimedThatDay}
	err := readTable(r, delim, required, func(line int, rec record) {
		res.Read++
		c, err := parseSupply(rec)
		if err != nil {
			res.Skipped++
			i.logger.Warn("skipping circulating supply row", "line", line, "error", err)
			return
		}
		rows = append(rows, c)
	})
	if err != nil {
		return res, err
	}
	return i.finish(ctx, KindSupply, res, len(rows), func() (int, error) {
		return i.supply.BulkUpsert(ctx, rows)
	})
}

func (i *Importer) finish(ctx context.Context, kind Kind, res Result, n int, upsert func() (int, error)) (Result, error) {
	if n == 0 {
		i.logger.Warn("no importable rows", "kind", kind, "read", res.Read, "skipped", res.Skipped)
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	upserted, err := upsert()
	if err != nil {
		return res, fmt.Errorf("upsert %s: %w", kind, err)
	}
	res.Upserted = upserted
	metrics.ImportedRowsTotal.WithLabelValues(string(kind)).Add(float64(upserted))
	i.logger.Info("import completed", "kind", kind, "read", res.Read, "skipped", res.Skipped, "upserted", upserted)
	return res, nil
}

// record is one data row keyed by trimmed header name.
type record map[string]string

func readTable(r io.Reader, delim rune, required []string, fn func(line int, rec record)) error {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("importer: empty input")
		}
		return fmt.Errorf("read header: %w", err)
	}
	for j := range header {
		header[j] = strings.TrimSpace(strings.TrimPrefix(header[j], "\ufeff"))
	}
	for _, col := range required {
		if !containsFold(header, col) {
			return fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line %d: %w", line, err)
		}
		if blank(fields) {
			continue
		}
		rec := make(record, len(header))
		for j, name := range header {
			if j < len(fields) {
				rec[name] = strings.TrimSpace(fields[j])
			}
		}
		fn(line, rec)
	}
}

func containsFold(header []string, col string) bool {
	for _, h := range header {
		if strings.EqualFold(h, col) {
			return true
		}
	}
	return false
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// get looks a column up case-insensitively.
func (r record) get(col string) (string, bool) {
	if v, ok := r[col]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, col) {
			return v, true
		}
	}
	return "", false
}

// decimalOr parses col, returning zero when the column is absent. Thousands
// separators are ignored.
func (r record) decimalOr(col string) (decimal.Decimal, error) {
	v, ok := r.get(col)
	if !ok {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %q: %w", col, err)
	}
	return d, nil
}

func parseEmission(rec record) (model.Emission, error) {
	raw, _ := rec.get(colDate)
	if raw == "" {
		return model.Emission{}, errors.New("missing date")
	}
	date, err := parseDate(raw, emissionDateLayouts)
	if err != nil {
		return model.Emission{}, err
	}

	e := model.Emission{Date: date}
	if v, ok := rec.get(colDay); ok && v != "" {
		if e.Day, err = strconv.ParseInt(v, 10, 64); err != nil {
			return model.Emission{}, fmt.Errorf("column %q: %w", colDay, err)
		}
	}
	fields := []struct {
		col string
		dst *decimal.Decimal
	}{
		{colCapitalEmission, &e.CapitalEmission},
		{colCodeEmission, &e.CodeEmission},
		{colComputeEmission, &e.ComputeEmission},
		{colCommunityEmission, &e.CommunityEmission},
		{colProtectionEmission, &e.ProtectionEmission},
		{colTotalEmission, &e.TotalEmission},
		{colTotalSupply, &e.TotalSupply},
	}
	for _, f := range fields {
		if *f.dst, err = rec.decimalOr(f.col); err != nil {
			return model.Emission{}, err
		}
	}
	return e, nil
}

func parseSupply(rec record) (model.CirculatingSupply, error) {
	raw, _ := rec.get(colSupplyDate)
	date, err := parseDate(raw, []string{model.DateLayout})
	if err != nil {
		return model.CirculatingSupply{}, err
	}
	tsRaw, _ := rec.get(colBlockTimestamp)
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return model.CirculatingSupply{}, fmt.Errorf("column %q: %w", colBlockTimestamp, err)
	}
	circulating, err := rec.decimalOr(colCirculating)
	if err != nil {
		return model.CirculatingSupply{}, err
	}
	claimed, err := rec.decimalOr(colClaimedThatDay)
	if err != nil {
		return model.CirculatingSupply{}, err
	}
	return model.CirculatingSupply{
		Date:                        date.Format(model.DateLayout),
		CirculatingSupplyAtThatDate: circulating,
		BlockTimestampAtThatDate:    time.Unix(ts, 0).UTC(),
		TotalClaimedThatDay:         claimed,
	}, nil
}

func parseDate(raw string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
