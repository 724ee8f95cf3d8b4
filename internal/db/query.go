package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imgajeed76/datagrid/internal/dataset"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/jackc/pgx/v5"
)

// readOnlyPrefixes are the statements a query source accepts.
var readOnlyPrefixes = []string{"SELECT", "WITH", "VALUES", "TABLE", "SHOW", "EXPLAIN"}

// IsReadOnly reports whether query starts with a statement that only
// reads. Leading comments and parentheses are skipped.
func IsReadOnly(query string) bool {
	q := strings.TrimSpace(query)
	for {
		switch {
		case strings.HasPrefix(q, "--"):
			end := strings.IndexByte(q, '\n')
			if end < 0 {
				return false
			}
			q = strings.TrimSpace(q[end+1:])
		case strings.HasPrefix(q, "/*"):
			end := strings.Index(q, "*/")
			if end < 0 {
				return false
			}
			q = strings.TrimSpace(q[end+2:])
		case strings.HasPrefix(q, "("):
			q = strings.TrimSpace(q[1:])
		default:
			upper := strings.ToUpper(q)
			for _, prefix := range readOnlyPrefixes {
				if strings.HasPrefix(upper, prefix) {
					rest := upper[len(prefix):]
					if rest == "" || !isWordByte(rest[0]) {
						return true
					}
				}
			}
			return false
		}
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Query runs a read-only query and loads the result set as a dataset. Each
// result column becomes a dataset column; with groupBy set, rows are
// grouped under the distinct values of that column.
func (db *DB) Query(ctx context.Context, query, groupBy string) (*dataset.Dataset, error) {
	if !IsReadOnly(query) {
		return nil, util.WriteQueryError(query)
	}

	pool := db.Pool()
	if pool == nil {
		return nil, util.ErrNotConnected
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}
	columns = uniqueColumns(columns)

	var records [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ds, err := dataset.FromRecords(queryTitle(query), columns, records, groupBy)
	if err != nil {
		return nil, err
	}
	ds.Format = dataset.FormatSQL
	return ds, nil
}

// uniqueColumns suffixes repeated result column names ("id", "id_2") so
// every column addresses its own cells.
func uniqueColumns(columns []string) []string {
	seen := make(map[string]int, len(columns))
	out := make([]string, len(columns))
	for i, c := range columns {
		if c == "" || c == "?column?" {
			c = fmt.Sprintf("column%d", i+1)
		}
		seen[c]++
		if n := seen[c]; n > 1 {
			c = fmt.Sprintf("%s_%d", c, n)
		}
		out[i] = c
	}
	return out
}

// queryTitle collapses the query to one line for the editor title.
func queryTitle(query string) string {
	title := []rune(strings.Join(strings.Fields(query), " "))
	if len(title) > 60 {
		return string(title[:59]) + "…"
	}
	return string(title)
}

// formatValue converts a SQL value to a single-line display string.
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}

	switch val := v.(type) {
	case []byte:
		// For byte arrays, check if it's printable text
		if len(val) == 0 {
			return ""
		}
		if util.IsBinary(val) {
			return fmt.Sprintf("[%d bytes]", len(val))
		}
		for _, b := range val {
			if b < 32 && b != '\n' && b != '\r' && b != '\t' {
				return fmt.Sprintf("[%d bytes]", len(val))
			}
		}
		return escapeControl(util.ToValidUTF8(string(val)))
	case string:
		return escapeControl(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func escapeControl(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
