/*
Package session implements the voter authentication state machine.

# States

	AwaitingCredentials --Authenticate (not yet voted)--> AwaitingOTP
	AwaitingCredentials --Authenticate (already voted)--> Completed
	AwaitingOTP         --VerifyOTP (match)-------------> Completed
	AwaitingOTP         --VerifyOTP (wrong code)--------> AwaitingOTP
	AwaitingOTP         --VerifyOTP (expired)-----------> AwaitingCredentials
	any                 --Reset-------------------------> AwaitingCredentials

CastVote is accepted in Completed for a voter who has not voted yet.
ResendOTP replaces the code of the current voter without changing state.

# Errors

Every failure is a *Error whose Kind is one of the package sentinels and
whose Message is shown to the voter. The message is also kept as the
session's last error until the next operation starts:

	if _, err := s.VerifyOTP(ctx, code); errors.Is(err, session.ErrExpired) {
		// back at credential entry
	}

Only ErrDirectoryUnavailable (and ErrBusy) are worth retrying as is.

# Directory Calls

Every directory call runs under Options.Timeout; a timeout or any other
store failure surfaces as ErrDirectoryUnavailable and leaves the state
unchanged.

# Registry

Registry maps session ids (UUIDs) to sessions in an expiring LRU so
abandoned browser sessions are reclaimed.
*/
package session
