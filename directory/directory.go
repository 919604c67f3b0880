package directory

import (
	"context"
	"errors"

	"github.com/Lakshita2255/Voter-auth-project/models"
)

var (
	ErrNotFound     = errors.New("voter not found")
	ErrAlreadyVoted = errors.New("voter has already voted")
	ErrInvalidPatch = errors.New("invalid voter patch")
)

// IdentityDirectory is the store of voter records a session reads and updates.
type IdentityDirectory interface {
	// Find returns every voter whose voter ID, national ID and phone all match.
	Find(ctx context.Context, voterID, nationalID, phone string) ([]models.VoterRecord, error)
	GetByID(ctx context.Context, id string) (models.VoterRecord, error)
	// UpdateByID merges patch into the record and returns the stored result.
	UpdateByID(ctx context.Context, id string, patch models.VoterPatch) (models.VoterRecord, error)
}

// Lister is implemented by directories that can enumerate their records.
type Lister interface {
	List(ctx context.Context, limit int) ([]models.VoterRecord, error)
}

func validatePatch(p models.VoterPatch) error {
	if (p.OTPCode == nil) != (p.OTPExpiresAt == nil) {
		return errors.Join(ErrInvalidPatch, errors.New("otp code and expiry must be set together"))
	}
	if p.ClearOTP && p.OTPCode != nil {
		return errors.Join(ErrInvalidPatch, errors.New("cannot set and clear otp in one patch"))
	}
	if p.HasVoted != nil && *p.HasVoted && p.VotingTimestamp == nil {
		return errors.Join(ErrInvalidPatch, errors.New("voting timestamp required"))
	}
	if p.VotingTimestamp != nil && (p.HasVoted == nil || !*p.HasVoted) {
		return errors.Join(ErrInvalidPatch, errors.New("voting timestamp without has_voted"))
	}
	return nil
}

// applyPatch merges p into rec. has_voted only ever moves false→true.
func applyPatch(rec *models.VoterRecord, p models.VoterPatch) error {
	if err := validatePatch(p); err != nil {
		return err
	}
	if p.HasVoted != nil && rec.HasVoted {
		return ErrAlreadyVoted
	}

	switch {
	case p.ClearOTP:
		rec.OTPCode = nil
		rec.OTPExpiresAt = nil
	case p.OTPCode != nil:
		code, exp := *p.OTPCode, *p.OTPExpiresAt
		rec.OTPCode = &code
		rec.OTPExpiresAt = &exp
	}

	if p.HasVoted != nil && *p.HasVoted {
		ts := *p.VotingTimestamp
		rec.HasVoted = true
		rec.VotingTimestamp = &ts
	}
	return nil
}
