// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voter authentication API.

# Handler Types

  - SessionHandler: drives a session.VotingSession per request
  - DemoHandler: lists demo credentials when demo mode is on

Handlers are created via constructor functions:

	sessionHandler := handlers.NewSessionHandler(registry, cfg)
	demoHandler := handlers.NewDemoHandler(dir, cfg)

# Session Flow

	POST /sessions                  → Create
	POST /sessions/{id}/credentials → SubmitCredentials (awaiting_otp, or completed if already voted)
	POST /sessions/{id}/otp         → SubmitOTP (completed)
	POST /sessions/{id}/otp/resend  → ResendOTP
	POST /sessions/{id}/vote        → CastVote
	POST /sessions/{id}/reset       → Reset

Successful calls return models.SessionResponse. A rejected operation returns
models.SessionErrorResponse with the voter-facing message, whether retrying
can help, and the snapshot the session was left in:

	404 voter not found
	403 voter under 18
	401 wrong passcode
	409 invalid state, expired passcode, already voted, no active session, busy
	503 directory unavailable (retryable)

Malformed requests (bad JSON, a missing credential field, an empty code)
get a plain models.ErrorResponse with 400. Any other code reaches the
session, so a wrong code of any shape is a 401.

In demo mode the pending passcode is returned as demo_otp. Client
addresses are logged only as a salted hash.
*/
package handlers
