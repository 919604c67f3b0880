// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voter authentication API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	registry := session.NewRegistry(dir, opts, cfg.MaxSessions, cfg.SessionTTL)
	mux := router.NewRouter(registry, dir, cfg)

# Endpoints

Health:

	GET /health

Sessions:

	POST   /sessions                 - Open a session
	GET    /sessions/{id}            - Current snapshot
	POST   /sessions/{id}/credentials - Submit voter id, national id, phone
	POST   /sessions/{id}/otp        - Submit the 6-digit code
	POST   /sessions/{id}/otp/resend - Issue a new code
	POST   /sessions/{id}/vote       - Record the vote
	POST   /sessions/{id}/reset      - Start over
	DELETE /sessions/{id}            - Discard the session

Demo mode only:

	GET /demo/voters - Credentials of the first five voters
*/
package router
