package database

import "database/sql"

// EnsureSchema creates the tables on first start. Statements are
// idempotent; this is a bootstrap, not a migration system.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			full_name     TEXT NOT NULL,
			role          TEXT NOT NULL,
			active        INTEGER NOT NULL DEFAULT 1,
			created_at    TIMESTAMP NOT NULL,
			last_login_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS animals (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			type                TEXT NOT NULL,
			name                TEXT NOT NULL UNIQUE COLLATE NOCASE,
			gender              TEXT NOT NULL DEFAULT '',
			age                 TEXT NOT NULL DEFAULT '',
			weight              TEXT NOT NULL DEFAULT '',
			acquisition_date    TEXT NOT NULL DEFAULT '',
			acquisition_country TEXT NOT NULL DEFAULT '',
			training_status     TEXT NOT NULL DEFAULT '',
			reserved            INTEGER NOT NULL DEFAULT 0,
			in_service_country  TEXT NOT NULL DEFAULT '',
			location            TEXT NOT NULL DEFAULT '',
			added_by            TEXT NOT NULL DEFAULT '',
			created_at          TIMESTAMP NOT NULL,
			breed               TEXT NOT NULL DEFAULT '',
			species             TEXT NOT NULL DEFAULT '',
			tail_length         TEXT NOT NULL DEFAULT '',
			height              TEXT NOT NULL DEFAULT '',
			body_length         TEXT NOT NULL DEFAULT '',
			coat_color          TEXT NOT NULL DEFAULT '',
			declawed            INTEGER NOT NULL DEFAULT 0,
			wingspan            TEXT NOT NULL DEFAULT '',
			can_fly             INTEGER NOT NULL DEFAULT 0,
			beak_type           TEXT NOT NULL DEFAULT '',
			fur_color           TEXT NOT NULL DEFAULT '',
			ear_type            TEXT NOT NULL DEFAULT '',
			litter_trained      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			animal_name   TEXT NOT NULL,
			animal_type   TEXT NOT NULL,
			activity_type TEXT NOT NULL,
			description   TEXT NOT NULL,
			location      TEXT NOT NULL,
			performed_by  TEXT NOT NULL,
			timestamp     TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_animals_type ON animals (type)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_animal ON activities (animal_name)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
