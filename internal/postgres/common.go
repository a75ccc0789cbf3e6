package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// queryExecutor is satisfied by *sql.DB and *sql.Tx.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

// jsonArg marshals v for a JSONB column. Nil values become NULL; an empty
// non-nil slice is written as [].
func jsonArg(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		if t == nil {
			return nil, nil
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	return string(raw), nil
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
