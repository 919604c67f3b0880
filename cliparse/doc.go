// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

Every flag falls back to an environment variable, then a default:

	-p                  PORT               3318
	-m                  DIRECTORY_MODE     memory (memory or sql)
	-t                  DATABASE_TYPE      sqlite (sqlite or postgres)
	-d                  DATABASE_URL       required in sql mode
	-directory-timeout  DIRECTORY_TIMEOUT  5s
	-session-ttl        SESSION_TTL        30m
	-max-sessions       MAX_SESSIONS       10000
	-mock-voters        MOCK_VOTERS        20
	-demo               DEMO_MODE          false
	-ip-salt            IP_HASH_SALT       random per process

CLI flags take precedence over environment variables. A .env file in the
working directory is loaded by main before flags are parsed.
*/
package cliparse
