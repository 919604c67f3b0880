// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - VoterRecord: one directory entry (credential triple, profile, vote and OTP state)
  - Credentials: voter_id, national_id, phone
  - VoterPatch: partial update merged into a VoterRecord
  - Snapshot: state, voter, last_error, busy

The OTP code of a VoterRecord is never serialized.

# Request Types

  - SubmitCredentialsRequest: voter_id, national_id, phone
  - SubmitOTPRequest: code

# Response Types

  - CreateSessionResponse: session_id, snapshot
  - SessionResponse: session_id, snapshot, message, demo_otp
  - DemoVotersResponse: total, voters
  - ErrorResponse: error, message
  - SessionErrorResponse: error, message, retryable, snapshot

# Constants

Session states:

	StateAwaitingCredentials = "awaiting_credentials"
	StateAwaitingOTP         = "awaiting_otp"
	StateCompleted           = "completed"
*/
package models
