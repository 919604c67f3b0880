package models

import "time"

// Session state constants
const (
	StateAwaitingCredentials = "awaiting_credentials"
	StateAwaitingOTP         = "awaiting_otp"
	StateCompleted           = "completed"
)

// DateLayout is the storage and wire format for dates of birth.
const DateLayout = "2006-01-02"

// Domain types

// VoterRecord is one entry in the identity directory.
type VoterRecord struct {
	ID             string `json:"id"`
	VoterID        string `json:"voter_id"`
	NationalID     string `json:"national_id"`
	Phone          string `json:"phone"`
	FullName       string `json:"full_name"`
	DateOfBirth    string `json:"date_of_birth"` // YYYY-MM-DD
	Address        string `json:"address"`
	Constituency   string `json:"constituency"`
	PollingStation string `json:"polling_station"`

	HasVoted        bool       `json:"has_voted"`
	VotingTimestamp *time.Time `json:"voting_timestamp,omitempty"`

	OTPCode      *string    `json:"-"` // Never expose in JSON
	OTPExpiresAt *time.Time `json:"otp_expires_at,omitempty"`
}

// Birthdate parses DateOfBirth.
func (v VoterRecord) Birthdate() (time.Time, error) {
	return time.Parse(DateLayout, v.DateOfBirth)
}

// Clone returns a deep copy so callers never share pointer fields.
func (v VoterRecord) Clone() VoterRecord {
	c := v
	if v.VotingTimestamp != nil {
		t := *v.VotingTimestamp
		c.VotingTimestamp = &t
	}
	if v.OTPCode != nil {
		s := *v.OTPCode
		c.OTPCode = &s
	}
	if v.OTPExpiresAt != nil {
		t := *v.OTPExpiresAt
		c.OTPExpiresAt = &t
	}
	return c
}

// Credentials is the triple that must jointly match a voter.
type Credentials struct {
	VoterID    string `json:"voter_id"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
}

// VoterPatch is a partial update merged into a VoterRecord.
// OTPCode and OTPExpiresAt must be set together; ClearOTP removes both.
// HasVoted=true must come with VotingTimestamp.
type VoterPatch struct {
	OTPCode         *string
	OTPExpiresAt    *time.Time
	ClearOTP        bool
	HasVoted        *bool
	VotingTimestamp *time.Time
}

// Snapshot is what the presentation layer renders for a session.
type Snapshot struct {
	State     string       `json:"state"`
	Voter     *VoterRecord `json:"voter"`
	LastError *string      `json:"last_error"`
	Busy      bool         `json:"busy"`
}

// Request types

type SubmitCredentialsRequest struct {
	VoterID    string `json:"voter_id"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
}

type SubmitOTPRequest struct {
	Code string `json:"code"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string   `json:"session_id"`
	Snapshot  Snapshot `json:"snapshot"`
}

type SessionResponse struct {
	SessionID string   `json:"session_id"`
	Snapshot  Snapshot `json:"snapshot"`
	Message   string   `json:"message,omitempty"`
	DemoOTP   string   `json:"demo_otp,omitempty"` // demo mode only
}

type DemoVoter struct {
	FullName   string `json:"full_name"`
	VoterID    string `json:"voter_id"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	HasVoted   bool   `json:"has_voted"`
}

type DemoVotersResponse struct {
	Total  int         `json:"total"`
	Voters []DemoVoter `json:"voters"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SessionErrorResponse reports a rejected session operation together with
// the state the session was left in.
type SessionErrorResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Retryable bool     `json:"retryable"`
	Snapshot  Snapshot `json:"snapshot"`
}
