package store

import "fmt"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		shop_domain TEXT NOT NULL UNIQUE,
		access_token TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		settings TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS surveys (
		id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		questions TEXT NOT NULL DEFAULT '[]',
		active INTEGER NOT NULL DEFAULT 0,
		priority INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'draft',
		target_audience TEXT NOT NULL DEFAULT '{}',
		display_rules TEXT NOT NULL DEFAULT '{}',
		style TEXT NOT NULL DEFAULT '{}',
		script_tag_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_surveys_store_status
		ON surveys (store_id, status, priority DESC, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS survey_responses (
		id TEXT PRIMARY KEY,
		survey_id TEXT NOT NULL,
		responses TEXT NOT NULL DEFAULT '[]',
		customer_email TEXT NOT NULL DEFAULT '',
		customer_type TEXT NOT NULL DEFAULT '',
		total_time_spent REAL NOT NULL DEFAULT 0,
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_responses_survey
		ON survey_responses (survey_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS survey_analytics (
		survey_id TEXT PRIMARY KEY,
		views INTEGER NOT NULL DEFAULT 0,
		completions INTEGER NOT NULL DEFAULT 0,
		average_time_spent REAL NOT NULL DEFAULT 0,
		completion_rate REAL NOT NULL DEFAULT 0,
		question_analytics TEXT NOT NULL DEFAULT '[]',
		demographics TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

func (db *Database) ensureSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}
	return nil
}
