package session

import "errors"

// Error kinds. Match with errors.Is.
var (
	ErrNotFound             = errors.New("voter not found")
	ErrIneligible           = errors.New("voter not eligible")
	ErrInvalidState         = errors.New("invalid session state")
	ErrExpired              = errors.New("otp expired")
	ErrInvalidCode          = errors.New("invalid otp")
	ErrAlreadyVoted         = errors.New("already voted")
	ErrNoActiveSession      = errors.New("no active session")
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	ErrBusy                 = errors.New("operation in progress")
)

// Error is a failed session operation. Message is safe to show to the voter.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "Something went wrong. Please try again."
}

// Retryable reports whether re-submitting the same operation may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrDirectoryUnavailable) || errors.Is(err, ErrBusy)
}
