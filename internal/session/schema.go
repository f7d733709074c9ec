package session

import (
	"database/sql"

	"codeberg.org/nording/hrvctl/internal/errors"
)

// initSchema initializes the database schema for session snapshots.
func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS session (
            timestamp INTEGER PRIMARY KEY,
            ibi REAL,
            mean_hrv REAL,
            hrv_target INTEGER,
            pacer_rate REAL,
            biofeedback INTEGER,
            connection_state TEXT
        )
    `)
	if err != nil {
		return errFactory.Wrap(ErrStorageInit, err)
	}

	return nil
}
