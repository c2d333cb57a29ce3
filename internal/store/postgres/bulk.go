package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// maxBindParams is the PostgreSQL limit of bind parameters per statement.
const maxBindParams = 65535

// insertSpec describes a multi-row INSERT ... VALUES statement.
type insertSpec struct {
	table    string
	columns  []string
	conflict string
}

// chunkRows returns how many rows of ncols columns fit in one statement.
func chunkRows(ncols, maxParams int) int {
	if ncols <= 0 {
		return 0
	}
	n := maxParams / ncols
	if n < 1 {
		n = 1
	}
	return n
}

// buildInsert renders the statement for n rows with sequential placeholders.
func buildInsert(spec insertSpec, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", spec.table, strings.Join(spec.columns, ", "))

	ncols := len(spec.columns)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := 0; c < ncols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*ncols+c+1)
		}
		sb.WriteByte(')')
	}
	if spec.conflict != "" {
		sb.WriteByte(' ')
		sb.WriteString(spec.conflict)
	}
	return sb.String()
}

// bulkInsertTx writes rows in chunks below the bind-parameter limit and
// returns the number of rows affected across all chunks.
func bulkInsertTx[T any](ctx context.Context, tx *sql.Tx, spec insertSpec, rows []T, values func(T) []any) (int, error) {
	size := chunkRows(len(spec.columns), maxBindParams)
	total := 0
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		args := make([]any, 0, (end-start)*len(spec.columns))
		for _, r := range rows[start:end] {
			args = append(args, values(r)...)
		}

		res, err := tx.ExecContext(ctx, buildInsert(spec, end-start), args...)
		if err != nil {
			return total, fmt.Errorf("insert %s rows %d..%d: %w", spec.table, start, end, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("%s rows affected: %w", spec.table, err)
		}
		total += int(n)
	}
	return total, nil
}

// bulkInsert runs bulkInsertTx in its own transaction.
func bulkInsert[T any](ctx context.Context, db *DB, spec insertSpec, rows []T, values func(T) []any) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	ctx, cancel := withTimeout(ctx, LongQueryTimeout)
	defer cancel()

	var inserted int
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := bulkInsertTx(ctx, tx, spec, rows, values)
		inserted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// dedupeLast keeps the last row per key, preserving first-seen order. A
// single INSERT ... ON CONFLICT DO UPDATE cannot touch the same row twice.
func dedupeLast[T any, K comparable](rows []T, key func(T) K) []T {
	idx := make(map[K]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if i, ok := idx[k]; ok {
			out[i] = r
			continue
		}
		idx[k] = len(out)
		out = append(out, r)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func queryAll[T any](ctx context.Context, db *DB, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	var out []T
	err := db.retryDo(ctx, "query", func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
		defer cancel()

		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// queryOne returns nil, nil when no row matches.
func queryOne[T any](ctx context.Context, db *DB, scan func(rowScanner) (T, error), query string, args ...any) (*T, error) {
	var v T
	err := db.retryDo(ctx, "query row", func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
		defer cancel()

		var err error
		v, err = scan(db.QueryRowContext(ctx, query, args...))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func countRows(ctx context.Context, db *DB, table string) (int64, error) {
	var n int64
	if err := db.queryRow(ctx, "count "+table, "SELECT COUNT(*) FROM "+table, nil, &n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
