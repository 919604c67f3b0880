// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Lakshita2255/Voter-auth-project/cliparse"
	"github.com/Lakshita2255/Voter-auth-project/db"
	"github.com/Lakshita2255/Voter-auth-project/models"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DirectoryMode:    cliparse.ModeMemory,
		DatabaseType:     "sqlite",
		DirectoryTimeout: time.Second,
		SessionTTL:       time.Minute,
		MaxSessions:      100,
		MockVoters:       20,
		IPHashSalt:       "test-ip-salt",
	}
}

// Birthdate returns the date on which someone turns years old on today.
func Birthdate(today time.Time, years int) string {
	return today.AddDate(-years, 0, 0).Format(models.DateLayout)
}

// SampleVoter returns an unvoted adult voter with the given identity.
func SampleVoter(id, voterID, nationalID, phone string) models.VoterRecord {
	return models.VoterRecord{
		ID:             id,
		VoterID:        voterID,
		NationalID:     nationalID,
		Phone:          phone,
		FullName:       "PRIYA SHARMA",
		DateOfBirth:    "1990-06-15",
		Address:        "12 MG Road, Pune, Maharashtra",
		Constituency:   "Pune",
		PollingStation: "Community Hall",
	}
}

// VotedVoter returns a voter that already voted at votedAt.
func VotedVoter(id, voterID, nationalID, phone string, votedAt time.Time) models.VoterRecord {
	v := SampleVoter(id, voterID, nationalID, phone)
	v.HasVoted = true
	v.VotingTimestamp = &votedAt
	return v
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
