// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are RFC 3339 text so the same schema works on SQLite and PostgreSQL.
const schema = `
-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE,
    national_id TEXT NOT NULL,
    phone TEXT NOT NULL,
    full_name TEXT NOT NULL,
    date_of_birth TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    constituency TEXT NOT NULL DEFAULT '',
    polling_station TEXT NOT NULL DEFAULT '',
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    voting_timestamp TEXT,
    otp_code TEXT,
    otp_expires_at TEXT,
    CHECK ((otp_code IS NULL) = (otp_expires_at IS NULL)),
    CHECK (has_voted = (voting_timestamp IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_voter_credentials ON voter(voter_id, national_id, phone);
`
