package session

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/nording/hrvctl/internal/errors"
	"codeberg.org/nording/hrvctl/internal/logger"
	"codeberg.org/nording/hrvctl/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Str("path", cfg.DBPath).Msg("initializing session repository")

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			return nil, errFactory.Wrap(ErrStorageInit, err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRepository{db: db}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, snapshot *model.Snapshot) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO session (
            timestamp, ibi, mean_hrv,
            hrv_target, pacer_rate, biofeedback, connection_state
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            ibi = excluded.ibi,
            mean_hrv = excluded.mean_hrv,
            hrv_target = excluded.hrv_target,
            pacer_rate = excluded.pacer_rate,
            biofeedback = excluded.biofeedback,
            connection_state = excluded.connection_state
    `,
		snapshot.Time.Unix(),
		snapshot.LatestIBI,
		snapshot.LatestHRV,
		snapshot.HRVTarget,
		snapshot.PacerRate,
		boolToInt(snapshot.Biofeedback),
		snapshot.Connection.String(),
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	return nil
}
