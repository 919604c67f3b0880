package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Lakshita2255/Voter-auth-project/auth"
	"github.com/Lakshita2255/Voter-auth-project/directory"
	"github.com/Lakshita2255/Voter-auth-project/models"
)

type State string

const (
	AwaitingCredentials State = models.StateAwaitingCredentials
	AwaitingOTP         State = models.StateAwaitingOTP
	Completed           State = models.StateCompleted
)

// Defaults applied by New for zero Options fields.
const (
	DefaultTimeout = 5 * time.Second
	DefaultOTPTTL  = 5 * time.Minute
	DefaultMinAge  = 18
)

const (
	msgNotFound    = "Voter not found. Please check your credentials (Voter ID, National ID, and Phone must ALL match)."
	msgUnavailable = "The voter directory is not responding. Please try again."
)

type Options struct {
	// Timeout bounds every directory call.
	Timeout     time.Duration
	OTPTTL      time.Duration
	MinAge      int
	Now         func() time.Time
	GenerateOTP func() (string, error)
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.OTPTTL <= 0 {
		o.OTPTTL = DefaultOTPTTL
	}
	if o.MinAge <= 0 {
		o.MinAge = DefaultMinAge
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.GenerateOTP == nil {
		o.GenerateOTP = auth.GenerateOTP
	}
	return o
}

// VotingSession drives one voter through credentials, OTP and vote casting.
// Operations run one at a time; a call made while another is in flight
// fails with ErrBusy.
type VotingSession struct {
	id   string
	dir  directory.IdentityDirectory
	opts Options

	busy atomic.Bool

	mu        sync.Mutex
	gen       uint64 // bumped by Reset so in-flight results are dropped
	state     State
	voter     *models.VoterRecord
	lastError string
}

func New(dir directory.IdentityDirectory, opts Options) *VotingSession {
	return &VotingSession{
		dir:   dir,
		opts:  opts.withDefaults(),
		state: AwaitingCredentials,
	}
}

func (s *VotingSession) ID() string { return s.id }

// begin marks the session busy and clears lastError.
func (s *VotingSession) begin() (uint64, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return 0, newError(ErrBusy, "Another request for this session is still in progress.", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
	return s.gen, nil
}

func (s *VotingSession) end() { s.busy.Store(false) }

func (s *VotingSession) current() (State, *models.VoterRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.voter == nil {
		return s.state, nil
	}
	v := s.voter.Clone()
	return s.state, &v
}

// commit stores the outcome of an operation unless Reset ran meanwhile.
func (s *VotingSession) commit(gen uint64, state State, voter *models.VoterRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	if state != s.state {
		slog.Info("session state changed", "session_id", s.id, "from", s.state, "to", state)
	}
	s.state = state
	s.voter = voter
}

func (s *VotingSession) fail(gen uint64, err *Error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.lastError = err.Message
	}
	if errors.Is(err, ErrDirectoryUnavailable) {
		slog.Error("directory call failed", "session_id", s.id, "error", err)
	} else {
		slog.Warn("session operation rejected", "session_id", s.id, "error", err)
	}
	return err
}

func directoryError(err error) *Error {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return newError(ErrNotFound, msgNotFound, err)
	case errors.Is(err, directory.ErrAlreadyVoted):
		return newError(ErrAlreadyVoted, "This voter has already voted.", err)
	default:
		return newError(ErrDirectoryUnavailable, msgUnavailable, err)
	}
}

// issueOTP stores a fresh code expiring OTPTTL from now.
func (s *VotingSession) issueOTP(ctx context.Context, voterID string) (models.VoterRecord, *Error) {
	code, err := s.opts.GenerateOTP()
	if err != nil {
		return models.VoterRecord{}, newError(ErrDirectoryUnavailable, "Could not issue a passcode. Please try again.", err)
	}
	expires := s.opts.Now().Add(s.opts.OTPTTL)

	dctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	updated, err := s.dir.UpdateByID(dctx, voterID, models.VoterPatch{
		OTPCode:      &code,
		OTPExpiresAt: &expires,
	})
	if err != nil {
		return models.VoterRecord{}, directoryError(err)
	}
	return updated, nil
}

// Authenticate looks up the voter by the full credential triple. Voters who
// already voted go straight to Completed; everyone else gets an OTP.
func (s *VotingSession) Authenticate(ctx context.Context, creds models.Credentials) (models.VoterRecord, error) {
	gen, err := s.begin()
	if err != nil {
		return models.VoterRecord{}, err
	}
	defer s.end()

	if state, _ := s.current(); state != AwaitingCredentials {
		return models.VoterRecord{}, s.fail(gen, newError(ErrInvalidState,
			"A voter is already signed in to this session. Start over to use different credentials.", nil))
	}

	dctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	matches, err := s.dir.Find(dctx, creds.VoterID, creds.NationalID, creds.Phone)
	cancel()
	if err != nil {
		return models.VoterRecord{}, s.fail(gen, directoryError(err))
	}
	if len(matches) == 0 {
		return models.VoterRecord{}, s.fail(gen, newError(ErrNotFound, msgNotFound, nil))
	}
	voter := matches[0]

	dob, err := voter.Birthdate()
	if err != nil {
		return models.VoterRecord{}, s.fail(gen, newError(ErrIneligible,
			"Date of birth on record could not be verified.", err))
	}
	if age := Age(dob, s.opts.Now()); age < s.opts.MinAge {
		return models.VoterRecord{}, s.fail(gen, newError(ErrIneligible,
			fmt.Sprintf("Voter is only %d years old and is not eligible to vote.", age), nil))
	}

	if voter.HasVoted {
		s.commit(gen, Completed, &voter)
		slog.Info("voter already voted", "session_id", s.id, "voter", voter.ID)
		return voter, nil
	}

	updated, ferr := s.issueOTP(ctx, voter.ID)
	if ferr != nil {
		return models.VoterRecord{}, s.fail(gen, ferr)
	}
	s.commit(gen, AwaitingOTP, &updated)
	slog.Info("otp issued", "session_id", s.id, "voter", updated.ID, "expires_at", updated.OTPExpiresAt)
	return updated, nil
}

// VerifyOTP checks entered against the outstanding code. A wrong code can be
// retried; an expired code sends the voter back to credential entry.
func (s *VotingSession) VerifyOTP(ctx context.Context, entered string) (models.VoterRecord, error) {
	gen, err := s.begin()
	if err != nil {
		return models.VoterRecord{}, err
	}
	defer s.end()

	state, voter := s.current()
	if state != AwaitingOTP || voter == nil || voter.OTPCode == nil || voter.OTPExpiresAt == nil {
		s.commit(gen, AwaitingCredentials, nil)
		return models.VoterRecord{}, s.fail(gen, newError(ErrInvalidState,
			"No passcode is pending for this session. Please enter your credentials again.", nil))
	}

	if s.opts.Now().After(*voter.OTPExpiresAt) {
		s.commit(gen, AwaitingCredentials, nil)
		return models.VoterRecord{}, s.fail(gen, newError(ErrExpired,
			"OTP has expired. Please authenticate again.", nil))
	}

	if !auth.CodesMatch(entered, *voter.OTPCode) {
		return models.VoterRecord{}, s.fail(gen, newError(ErrInvalidCode, "Invalid OTP. Please try again.", nil))
	}

	dctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	fresh, err := s.dir.GetByID(dctx, voter.ID)
	if err != nil {
		return models.VoterRecord{}, s.fail(gen, directoryError(err))
	}
	s.commit(gen, Completed, &fresh)
	return fresh, nil
}

// ResendOTP replaces the outstanding code. The old code stops matching.
func (s *VotingSession) ResendOTP(ctx context.Context) (models.VoterRecord, error) {
	gen, err := s.begin()
	if err != nil {
		return models.VoterRecord{}, err
	}
	defer s.end()

	state, voter := s.current()
	if voter == nil {
		return models.VoterRecord{}, s.fail(gen, newError(ErrNoActiveSession,
			"No voter data to resend OTP to. Please authenticate again.", nil))
	}

	updated, ferr := s.issueOTP(ctx, voter.ID)
	if ferr != nil {
		return models.VoterRecord{}, s.fail(gen, ferr)
	}
	s.commit(gen, state, &updated)
	slog.Info("otp reissued", "session_id", s.id, "voter", updated.ID, "expires_at", updated.OTPExpiresAt)
	return updated, nil
}

// CastVote records the vote once. A second call fails with ErrAlreadyVoted
// and keeps the first timestamp.
func (s *VotingSession) CastVote(ctx context.Context) (models.VoterRecord, error) {
	gen, err := s.begin()
	if err != nil {
		return models.VoterRecord{}, err
	}
	defer s.end()

	state, voter := s.current()
	if state != Completed || voter == nil {
		return models.VoterRecord{}, s.fail(gen, newError(ErrNoActiveSession,
			"Cannot vote. Please complete authentication first.", nil))
	}
	if voter.HasVoted {
		return models.VoterRecord{}, s.fail(gen, newError(ErrAlreadyVoted, "This voter has already voted.", nil))
	}

	voted := true
	now := s.opts.Now().UTC()
	dctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	updated, err := s.dir.UpdateByID(dctx, voter.ID, models.VoterPatch{
		HasVoted:        &voted,
		VotingTimestamp: &now,
		ClearOTP:        true,
	})
	if errors.Is(err, directory.ErrAlreadyVoted) {
		// Another session got there first; show the stored record
		if fresh, gerr := s.dir.GetByID(dctx, voter.ID); gerr == nil {
			s.commit(gen, Completed, &fresh)
		}
	}
	if err != nil {
		return models.VoterRecord{}, s.fail(gen, directoryError(err))
	}

	s.commit(gen, Completed, &updated)
	slog.Info("vote recorded", "session_id", s.id, "voter", updated.ID)
	return updated, nil
}

// Reset returns to credential entry. Results of an operation still in
// flight are discarded.
func (s *VotingSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = AwaitingCredentials
	s.voter = nil
	s.lastError = ""
}

func (s *VotingSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot is the presentation view of the session.
func (s *VotingSession) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.Snapshot{
		State: string(s.state),
		Busy:  s.busy.Load(),
	}
	if s.voter != nil {
		v := s.voter.Clone()
		snap.Voter = &v
	}
	if s.lastError != "" {
		msg := s.lastError
		snap.LastError = &msg
	}
	return snap
}

// PendingOTP returns the outstanding code while one is awaited.
// Only demo mode surfaces it; real delivery is out of band.
func (s *VotingSession) PendingOTP() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != AwaitingOTP || s.voter == nil || s.voter.OTPCode == nil {
		return "", false
	}
	return *s.voter.OTPCode, true
}
