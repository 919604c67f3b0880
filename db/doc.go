// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voter: identity directory entries with vote and OTP state

The table's CHECK constraints mirror the record invariants: otp_code and
otp_expires_at are set together, and voting_timestamp is present exactly
when has_voted is true.

# Indexes

  - voter.voter_id (unique)
  - voter.(voter_id, national_id, phone) for credential lookups
*/
package db
