package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// fakeResult implements sql.Result for tests.
type fakeResult struct {
	rowsAffected int64
}

func (f *fakeResult) LastInsertId() (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeResult) RowsAffected() (int64, error) {
	return f.rowsAffected, nil
}

// fakeRowScanner implements RowScanner for tests.
type fakeRowScanner struct {
	rows [][]any
	i    int
	err  error
}

func (f *fakeRowScanner) Next() bool {
	return f.i < len(f.rows)
}

func (f *fakeRowScanner) Scan(dest ...any) error {
	if f.i >= len(f.rows) {
		return errors.New("no more rows")
	}
	row := f.rows[f.i]
	if len(dest) != len(row) {
		return errors.New("dest length mismatch")
	}
	for i := range dest {
		// sql.Null* types convert for themselves
		if s, ok := dest[i].(sql.Scanner); ok {
			if err := s.Scan(row[i]); err != nil {
				return err
			}
			continue
		}
		switch d := dest[i].(type) {
		case *string:
			switch v := row[i].(type) {
			case string:
				*d = v
			case time.Time:
				// database/sql renders time values this way
				*d = v.Format(time.RFC3339Nano)
			default:
				return errors.New("type assertion to string failed")
			}
		case *time.Time:
			v, ok := row[i].(time.Time)
			if !ok {
				return errors.New("type assertion to time.Time failed")
			}
			*d = v
		default:
			return errors.New("unsupported dest type")
		}
	}
	f.i++
	return nil
}

func (f *fakeRowScanner) Err() error   { return f.err }
func (f *fakeRowScanner) Close() error { return nil }

type fakeStmt struct {
	tx    *fakeTx
	query string
}

func (s *fakeStmt) ExecContext(ctx context.Context, args ...any) (sql.Result, error) {
	if s.tx.StmtExecFn != nil {
		if err := s.tx.StmtExecFn(s.query, args); err != nil {
			return nil, err
		}
	}
	if len(args) > 0 {
		s.tx.copied[s.query] = append(s.tx.copied[s.query], args)
	}
	return &fakeResult{rowsAffected: 1}, nil
}

func (s *fakeStmt) Close() error { return nil }

type fakeTx struct {
	StmtExecFn func(query string, args []any) error
	execs      []string
	copied     map[string][][]any
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	t.execs = append(t.execs, query)
	return &fakeResult{}, nil
}

func (t *fakeTx) PrepareContext(ctx context.Context, query string) (Stmt, error) {
	return &fakeStmt{tx: t, query: query}, nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

// fakeDB implements DB interface.
type fakeDB struct {
	QueryFn  func(ctx context.Context, query string, args ...any) (RowScanner, error)
	ExecFn   func(ctx context.Context, query string, args ...any) (sql.Result, error)
	tx       *fakeTx
	execs    []string
	lastArgs []any
}

func (f *fakeDB) QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error) {
	f.lastArgs = args
	if f.QueryFn != nil {
		return f.QueryFn(ctx, query, args...)
	}
	return &fakeRowScanner{}, nil
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execs = append(f.execs, query)
	f.lastArgs = args
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	return &fakeResult{rowsAffected: 1}, nil
}

func (f *fakeDB) BeginTx(ctx context.Context) (Tx, error) {
	if f.tx == nil {
		f.tx = &fakeTx{}
	}
	if f.tx.copied == nil {
		f.tx.copied = map[string][][]any{}
	}
	return f.tx, nil
}
