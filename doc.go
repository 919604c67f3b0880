// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the voter authentication API server.

A polling-station kiosk opens a session, submits the voter's credential
triple (voter id, national id, phone), confirms a one-time passcode and
records that the voter has voted. Each voter can vote once; a voter who
already voted is shown their record without a passcode.

# Starting the Server

With generated voters held in memory:

	go run . -demo

Against a database:

	go run . -m sql -t postgres -d "postgres://..."
	go run . -m sql -t sqlite -d voters.db

An empty voter table is seeded with -mock-voters generated voters.
Variables from a .env file in the working directory are loaded first.

# Configuration

  - PORT (-p): Server port (default: 3318)
  - DIRECTORY_MODE (-m): memory or sql (default: memory)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): required in sql mode
  - DIRECTORY_TIMEOUT (-directory-timeout): bound on each directory call (default: 5s)
  - SESSION_TTL (-session-ttl): idle session lifetime (default: 30m)
  - MAX_SESSIONS (-max-sessions): live session cap (default: 10000)
  - MOCK_VOTERS (-mock-voters): generated voters (default: 20)
  - DEMO_MODE (-demo): return OTPs in responses and enable GET /demo/voters
  - IP_HASH_SALT (-ip-salt): salt for client hashes in logs

# Architecture

  - session: voting session state machine and session registry
  - directory: voter identity store (memory and SQL) and mock generator
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, recovery, JSON helpers
  - models: Request/response and domain types
  - auth: Random ids, OTP generation and comparison
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
