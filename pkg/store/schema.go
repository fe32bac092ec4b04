package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current snapshot schema version.
const SchemaVersion = 1

// CreateSchema creates the snapshot schema if it doesn't exist.
// The message table mirrors the indexer's columns; byte columns are BLOBs.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createMessageTable(db); err != nil {
		return fmt.Errorf("creating message table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Insert version if table is empty
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	return nil
}

func createMessageTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS message (
			id INTEGER PRIMARY KEY,
			msg_id BLOB NOT NULL UNIQUE,
			nonce INTEGER NOT NULL,
			origin INTEGER NOT NULL,
			destination INTEGER NOT NULL,
			sender BLOB NOT NULL,
			recipient BLOB NOT NULL,
			msg_body BLOB,
			origin_mailbox BLOB,
			origin_tx_id INTEGER,
			time_created TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_message_origin_sender ON message(origin, sender)`,
		`CREATE INDEX IF NOT EXISTS idx_message_destination_recipient ON message(destination, recipient)`,
		`CREATE INDEX IF NOT EXISTS idx_message_time_created ON message(time_created)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
