package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Lakshita2255/Voter-auth-project/models"
)

const voterColumns = `id, voter_id, national_id, phone, full_name, date_of_birth,
	address, constituency, polling_station, has_voted, voting_timestamp,
	otp_code, otp_expires_at`

// SQLDirectory stores voters in the voter table created by db.CreateSchema.
// Queries use $n placeholders, which both lib/pq and modernc sqlite accept.
type SQLDirectory struct {
	db *sql.DB
}

func NewSQLDirectory(db *sql.DB) *SQLDirectory {
	return &SQLDirectory{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoter(row rowScanner) (models.VoterRecord, error) {
	var v models.VoterRecord
	var votedAt, otpCode, otpExpires sql.NullString

	err := row.Scan(&v.ID, &v.VoterID, &v.NationalID, &v.Phone, &v.FullName, &v.DateOfBirth,
		&v.Address, &v.Constituency, &v.PollingStation, &v.HasVoted, &votedAt,
		&otpCode, &otpExpires)
	if err != nil {
		return models.VoterRecord{}, err
	}

	if v.VotingTimestamp, err = parseTime(votedAt); err != nil {
		return models.VoterRecord{}, fmt.Errorf("voting_timestamp of %s: %w", v.ID, err)
	}
	if v.OTPExpiresAt, err = parseTime(otpExpires); err != nil {
		return models.VoterRecord{}, fmt.Errorf("otp_expires_at of %s: %w", v.ID, err)
	}
	if otpCode.Valid {
		code := otpCode.String
		v.OTPCode = &code
	}
	return v, nil
}

func parseTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// Insert adds a voter record.
func (d *SQLDirectory) Insert(ctx context.Context, v models.VoterRecord) error {
	var otpCode any
	if v.OTPCode != nil {
		otpCode = *v.OTPCode
	}

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO voter (`+voterColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, v.ID, v.VoterID, v.NationalID, v.Phone, v.FullName, v.DateOfBirth,
		v.Address, v.Constituency, v.PollingStation, v.HasVoted, formatTime(v.VotingTimestamp),
		otpCode, formatTime(v.OTPExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to insert voter %s: %w", v.ID, err)
	}
	return nil
}

// Count returns the number of stored voters.
func (d *SQLDirectory) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voter`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return n, nil
}

func (d *SQLDirectory) Find(ctx context.Context, voterID, nationalID, phone string) ([]models.VoterRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+voterColumns+` FROM voter
		WHERE voter_id = $1 AND national_id = $2 AND phone = $3
		ORDER BY id
	`, voterID, nationalID, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	var out []models.VoterRecord
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *SQLDirectory) GetByID(ctx context.Context, id string) (models.VoterRecord, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+voterColumns+` FROM voter WHERE id = $1`, id)
	v, err := scanVoter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoterRecord{}, ErrNotFound
	}
	if err != nil {
		return models.VoterRecord{}, fmt.Errorf("failed to get voter %s: %w", id, err)
	}
	return v, nil
}

// UpdateByID applies patch in a single statement. A has_voted change is
// guarded by has_voted = FALSE so two sessions cannot both record a vote.
func (d *SQLDirectory) UpdateByID(ctx context.Context, id string, patch models.VoterPatch) (models.VoterRecord, error) {
	if err := validatePatch(patch); err != nil {
		return models.VoterRecord{}, err
	}

	var sets []string
	var args []any
	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	switch {
	case patch.ClearOTP:
		sets = append(sets, "otp_code = NULL", "otp_expires_at = NULL")
	case patch.OTPCode != nil:
		set("otp_code", *patch.OTPCode)
		set("otp_expires_at", formatTime(patch.OTPExpiresAt))
	}

	guardVoted := patch.HasVoted != nil
	if guardVoted && *patch.HasVoted {
		set("has_voted", true)
		set("voting_timestamp", formatTime(patch.VotingTimestamp))
	}

	if len(sets) == 0 {
		// has_voted=false on an unvoted record is the only no-op left
		current, err := d.GetByID(ctx, id)
		if err == nil && guardVoted && current.HasVoted {
			return models.VoterRecord{}, ErrAlreadyVoted
		}
		return current, err
	}

	args = append(args, id)
	query := "UPDATE voter SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))
	if guardVoted {
		query += " AND has_voted = FALSE"
	}

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.VoterRecord{}, fmt.Errorf("failed to update voter %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.VoterRecord{}, fmt.Errorf("failed to update voter %s: %w", id, err)
	}

	current, err := d.GetByID(ctx, id)
	if err != nil {
		return models.VoterRecord{}, err
	}
	if affected == 0 && guardVoted {
		return models.VoterRecord{}, ErrAlreadyVoted
	}
	return current, nil
}

// List returns up to limit voters ordered by id. limit <= 0 means all.
func (d *SQLDirectory) List(ctx context.Context, limit int) ([]models.VoterRecord, error) {
	query := `SELECT ` + voterColumns + ` FROM voter ORDER BY id`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list voters: %w", err)
	}
	defer rows.Close()

	var out []models.VoterRecord
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
