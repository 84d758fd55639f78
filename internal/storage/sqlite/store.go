// Package sqlite provides a SQLite file-backed key-value store. Several
// processes opening the same file behave like browser tabs sharing one local
// storage: writes are logged to a change table that other handles poll.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/sporthub/internal/dependencies/random"
	"github.com/mcoot/sporthub/internal/model"
	"github.com/mcoot/sporthub/internal/storage"
)

//go:embed schema.sql
var schema string

const originLength = 12

// Config holds SQLite store settings
type Config struct {
	// Path is the database file
	Path string
	// PollInterval is how often subscribers read the change log
	PollInterval time.Duration
	// ChangeRetention is how many of the newest change log rows survive a prune
	ChangeRetention int
}

// DefaultConfig returns sensible defaults for the SQLite store
func DefaultConfig() Config {
	return Config{
		Path:            "sporthub.db",
		PollInterval:    500 * time.Millisecond,
		ChangeRetention: 1000,
	}
}

// Store persists key-value pairs in SQLite
type Store struct {
	sqlDB  *sql.DB
	cfg    Config
	origin string
	logger *slog.Logger

	closed    chan struct{}
	closeOnce sync.Once
}

// Ensure Store implements the interface
var _ storage.Store = (*Store)(nil)

// Open opens a SQLite store and applies the embedded schema
func Open(cfg Config, rnd random.Random, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if cfg.ChangeRetention <= 0 {
		cfg.ChangeRetention = DefaultConfig().ChangeRetention
	}
	dsn := "file:" + filepath.Clean(cfg.Path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s := &Store{
		sqlDB:  sqlDB,
		cfg:    cfg,
		origin: rnd.String(originLength, random.OriginAlphabet),
		logger: logger,
		closed: make(chan struct{}),
	}
	if _, err := s.PruneChanges(context.Background()); err != nil {
		logger.Warn("prune change log failed", slog.Any("error", err))
	}
	return s, nil
}

// PruneChanges deletes change log rows older than the newest ChangeRetention
// entries and returns how many were removed. Subscribers lagging further
// behind than that miss the pruned changes.
func (s *Store) PruneChanges(ctx context.Context) (int64, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM kv_changes
		 WHERE seq <= (SELECT COALESCE(MAX(seq), 0) FROM kv_changes) - ?`,
		s.cfg.ChangeRetention,
	)
	if err != nil {
		return 0, fmt.Errorf("prune change log: %w", err)
	}
	return res.RowsAffected()
}

// Close ends subscriptions and closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	s.closeOnce.Do(func() { close(s.closed) })
	return s.sqlDB.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var value string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrKeyNotFound
		}
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}
		return s.logChange(ctx, tx, key, false)
	})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
		if err != nil {
			return fmt.Errorf("remove %q: %w", key, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		return s.logChange(ctx, tx, key, true)
	})
}

// Subscribe polls the change log for rows written by other handles after the
// moment of subscription.
func (s *Store) Subscribe(ctx context.Context) (<-chan storage.Change, error) {
	var cursor int64
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM kv_changes`,
	).Scan(&cursor); err != nil {
		return nil, fmt.Errorf("read change cursor: %w", err)
	}

	out := make(chan storage.Change)
	go func() {
		defer close(out)

		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.closed:
				return
			case <-ticker.C:
			}

			changes, next, err := s.changesSince(ctx, cursor)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("poll change log failed", slog.Any("error", err))
				continue
			}
			cursor = next
			for _, change := range changes {
				select {
				case out <- change:
				case <-ctx.Done():
					return
				case <-s.closed:
					return
				}
			}
		}
	}()

	return out, nil
}

func (s *Store) changesSince(ctx context.Context, cursor int64) ([]storage.Change, int64, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, key, removed FROM kv_changes
		 WHERE seq > ? AND origin <> ?
		 ORDER BY seq`,
		cursor, s.origin,
	)
	if err != nil {
		return nil, cursor, err
	}
	defer rows.Close()

	var changes []storage.Change
	for rows.Next() {
		var (
			seq     int64
			change  storage.Change
			removed int
		)
		if err := rows.Scan(&seq, &change.Key, &removed); err != nil {
			return nil, cursor, err
		}
		change.Removed = removed != 0
		changes = append(changes, change)
		cursor = seq
	}
	return changes, cursor, rows.Err()
}

func (s *Store) logChange(ctx context.Context, tx *sql.Tx, key string, removed bool) error {
	flag := 0
	if removed {
		flag = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv_changes (key, removed, origin) VALUES (?, ?, ?)`,
		key, flag, s.origin,
	); err != nil {
		return fmt.Errorf("log change for %q: %w", key, err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
