package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

type dialect struct {
	name   string
	schema string
	get    string
	put    string
	delete string
}

// sqlStore is the kv table shared by the sqlite and postgres drivers.
type sqlStore struct {
	db *sql.DB
	d  dialect
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*sqlStore, error) {
	s := &sqlStore{db: db, d: d}
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, d.schema)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%s: create kv table", d.name)
	}
	return s, nil
}

func (s *sqlStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, s.d.get, key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "%s: get %q", s.d.name, key)
	}
	return value, true, nil
}

func (s *sqlStore) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.d.put, key, value, time.Now().UTC())
		return err
	})
	return errors.Wrapf(err, "%s: put %q", s.d.name, key)
}

func (s *sqlStore) Delete(ctx context.Context, key string) error {
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.d.delete, key)
		return err
	})
	return errors.Wrapf(err, "%s: delete %q", s.d.name, key)
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
