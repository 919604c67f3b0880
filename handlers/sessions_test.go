package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Lakshita2255/Voter-auth-project/cliparse"
	"github.com/Lakshita2255/Voter-auth-project/directory"
	"github.com/Lakshita2255/Voter-auth-project/models"
	"github.com/Lakshita2255/Voter-auth-project/session"
	"github.com/Lakshita2255/Voter-auth-project/testutil"
)

const testOTP = "482913"

var (
	adult = models.SubmitCredentialsRequest{VoterID: "XYZ1234567", NationalID: "111122223333", Phone: "9876543210"}
	voted = models.SubmitCredentialsRequest{VoterID: "ABC1234567", NationalID: "123456789012", Phone: "9123456789"}
	minor = models.SubmitCredentialsRequest{VoterID: "MNR1234567", NationalID: "222233334444", Phone: "9000000001"}
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seedVoters returns the adult, already-voted and underage fixtures.
func seedVoters(now time.Time) []models.VoterRecord {
	m := testutil.SampleVoter("v3", minor.VoterID, minor.NationalID, minor.Phone)
	m.DateOfBirth = testutil.Birthdate(now, 16)
	return []models.VoterRecord{
		testutil.SampleVoter("v1", adult.VoterID, adult.NationalID, adult.Phone),
		testutil.VotedVoter("v2", voted.VoterID, voted.NationalID, voted.Phone, now.Add(-time.Hour)),
		m,
	}
}

type testEnv struct {
	handler  *SessionHandler
	registry *session.Registry
	clock    *testClock
}

func newTestEnv(t *testing.T, dir directory.IdentityDirectory, cfg cliparse.Config) *testEnv {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)}
	opts := session.Options{
		Timeout:     cfg.DirectoryTimeout,
		Now:         clock.Now,
		GenerateOTP: func() (string, error) { return testOTP, nil },
	}
	reg := session.NewRegistry(dir, opts, cfg.MaxSessions, cfg.SessionTTL)
	return &testEnv{handler: NewSessionHandler(reg, cfg), registry: reg, clock: clock}
}

func newMemoryEnv(t *testing.T, cfg cliparse.Config) *testEnv {
	t.Helper()
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	return newTestEnv(t, directory.NewMemoryDirectory(seedVoters(now)...), cfg)
}

// call invokes handler for session id with an optional JSON body.
func call(handler http.HandlerFunc, method, path, id string, body interface{}) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, nil)
	if id != "" {
		req.SetPathValue("id", id)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func (e *testEnv) open(t *testing.T) string {
	t.Helper()
	w := call(e.handler.Create, "POST", "/sessions", "", nil)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.CreateSessionResponse
	testutil.AssertJSON(t, w, &resp)
	return resp.SessionID
}

func (e *testEnv) authenticate(t *testing.T, id string, creds models.SubmitCredentialsRequest) *httptest.ResponseRecorder {
	t.Helper()
	return call(e.handler.SubmitCredentials, "POST", "/sessions/"+id+"/credentials", id, creds)
}

func (e *testEnv) verify(t *testing.T, id, code string) *httptest.ResponseRecorder {
	t.Helper()
	return call(e.handler.SubmitOTP, "POST", "/sessions/"+id+"/otp", id, models.SubmitOTPRequest{Code: code})
}

func TestCreateSession(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())

	w := call(env.handler.Create, "POST", "/sessions", "", nil)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateSessionResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.SessionID == "" {
		t.Error("Expected session_id")
	}
	if resp.Snapshot.State != models.StateAwaitingCredentials {
		t.Errorf("Expected state %s, got %s", models.StateAwaitingCredentials, resp.Snapshot.State)
	}
	if resp.Snapshot.Voter != nil || resp.Snapshot.LastError != nil {
		t.Error("Expected empty snapshot")
	}
	if env.registry.Len() != 1 {
		t.Errorf("Expected 1 live session, got %d", env.registry.Len())
	}
}

func TestGetSession(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)

	w := call(env.handler.Get, "GET", "/sessions/"+id, id, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.SessionID != id {
		t.Errorf("Expected session_id %s, got %s", id, resp.SessionID)
	}

	w = call(env.handler.Get, "GET", "/sessions/unknown", "unknown", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSubmitCredentials(t *testing.T) {
	tests := []struct {
		name           string
		body           models.SubmitCredentialsRequest
		expectedStatus int
		expectedState  string
		messagePart    string
	}{
		{
			name:           "valid credentials",
			body:           adult,
			expectedStatus: http.StatusOK,
			expectedState:  models.StateAwaitingOTP,
			messagePart:    "OTP sent",
		},
		{
			name: "credentials are trimmed",
			body: models.SubmitCredentialsRequest{
				VoterID:    "  " + adult.VoterID + " ",
				NationalID: adult.NationalID + "\t",
				Phone:      " " + adult.Phone,
			},
			expectedStatus: http.StatusOK,
			expectedState:  models.StateAwaitingOTP,
		},
		{
			name:           "already voted skips OTP",
			body:           voted,
			expectedStatus: http.StatusOK,
			expectedState:  models.StateCompleted,
			messagePart:    "already voted",
		},
		{
			name:           "partial match",
			body:           models.SubmitCredentialsRequest{VoterID: adult.VoterID, NationalID: adult.NationalID, Phone: voted.Phone},
			expectedStatus: http.StatusNotFound,
			expectedState:  models.StateAwaitingCredentials,
			messagePart:    "must ALL match",
		},
		{
			name:           "underage voter",
			body:           minor,
			expectedStatus: http.StatusForbidden,
			expectedState:  models.StateAwaitingCredentials,
			messagePart:    "only 16 years old",
		},
		{
			name:           "missing voter_id",
			body:           models.SubmitCredentialsRequest{NationalID: adult.NationalID, Phone: adult.Phone},
			expectedStatus: http.StatusBadRequest,
			messagePart:    "voter_id is required",
		},
		{
			name:           "blank phone",
			body:           models.SubmitCredentialsRequest{VoterID: adult.VoterID, NationalID: adult.NationalID, Phone: "   "},
			expectedStatus: http.StatusBadRequest,
			messagePart:    "phone is required",
		},
		{
			name:           "missing national_id",
			body:           models.SubmitCredentialsRequest{VoterID: adult.VoterID, Phone: adult.Phone},
			expectedStatus: http.StatusBadRequest,
			messagePart:    "national_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newMemoryEnv(t, testutil.GetTestConfig())
			id := env.open(t)

			w := env.authenticate(t, id, tt.body)
			testutil.AssertStatus(t, w, tt.expectedStatus)
			body := w.Body.String()

			if tt.messagePart != "" && !strings.Contains(body, tt.messagePart) {
				t.Errorf("Expected body to contain %q, got %s", tt.messagePart, body)
			}
			if tt.expectedState != "" && !strings.Contains(body, `"state":"`+tt.expectedState+`"`) {
				t.Errorf("Expected state %s, got %s", tt.expectedState, body)
			}
			if strings.Contains(body, testOTP) {
				t.Error("OTP must not appear outside demo mode")
			}
		})
	}
}

func TestSubmitCredentials_InvalidJSON(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)

	req := httptest.NewRequest("POST", "/sessions/"+id+"/credentials", strings.NewReader("{not json"))
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	env.handler.SubmitCredentials(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestSubmitCredentials_UnknownSession(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())

	w := env.authenticate(t, "missing", adult)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSubmitCredentials_Twice(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)

	testutil.AssertStatus(t, env.authenticate(t, id, adult), http.StatusOK)

	w := env.authenticate(t, id, adult)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.SessionErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Snapshot.State != models.StateAwaitingOTP {
		t.Errorf("Expected state to stay %s, got %s", models.StateAwaitingOTP, resp.Snapshot.State)
	}
	if resp.Retryable {
		t.Error("Expected invalid state to be non-retryable")
	}
}

func TestDemoOTP(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.DemoMode = true
	env := newMemoryEnv(t, cfg)
	id := env.open(t)

	w := env.authenticate(t, id, adult)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.DemoOTP != testOTP {
		t.Errorf("Expected demo_otp %s, got %q", testOTP, resp.DemoOTP)
	}

	// No code is pending once verified
	w = env.verify(t, id, resp.DemoOTP)
	testutil.AssertStatus(t, w, http.StatusOK)
	var done models.SessionResponse
	testutil.AssertJSON(t, w, &done)
	if done.DemoOTP != "" {
		t.Errorf("Expected no demo_otp after verification, got %q", done.DemoOTP)
	}
}

func TestSubmitOTP(t *testing.T) {
	tests := []struct {
		name           string
		code           string
		expectedStatus int
		expectedState  string
	}{
		{"correct code", testOTP, http.StatusOK, models.StateCompleted},
		{"wrong code", "111111", http.StatusUnauthorized, models.StateAwaitingOTP},
		{"leading zero", "099999", http.StatusUnauthorized, models.StateAwaitingOTP},
		{"all zeros", "000000", http.StatusUnauthorized, models.StateAwaitingOTP},
		{"too short", "4829", http.StatusUnauthorized, models.StateAwaitingOTP},
		{"not digits", "48291a", http.StatusUnauthorized, models.StateAwaitingOTP},
		{"empty", "", http.StatusBadRequest, ""},
		{"only spaces", "   ", http.StatusBadRequest, ""},
		{"surrounding spaces", " " + testOTP + " ", http.StatusOK, models.StateCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newMemoryEnv(t, testutil.GetTestConfig())
			id := env.open(t)
			testutil.AssertStatus(t, env.authenticate(t, id, adult), http.StatusOK)

			w := env.verify(t, id, tt.code)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedState != "" && !strings.Contains(w.Body.String(), `"state":"`+tt.expectedState+`"`) {
				t.Errorf("Expected state %s, got %s", tt.expectedState, w.Body.String())
			}
		})
	}
}

func TestSubmitOTP_WrongCodeRecordsLastError(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)
	testutil.AssertStatus(t, env.authenticate(t, id, adult), http.StatusOK)

	w := env.verify(t, id, "000000")
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	var resp models.SessionErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Invalid OTP. Please try again." {
		t.Errorf("Expected invalid code message, got %q", resp.Message)
	}
	if resp.Snapshot.LastError == nil || *resp.Snapshot.LastError != resp.Message {
		t.Errorf("Expected last_error %q, got %v", resp.Message, resp.Snapshot.LastError)
	}
	if resp.Snapshot.State != models.StateAwaitingOTP {
		t.Errorf("Expected state %s, got %s", models.StateAwaitingOTP, resp.Snapshot.State)
	}

	// The error is still visible on a later read, then cleared by the right code
	w = call(env.handler.Get, "GET", "/sessions/"+id, id, nil)
	var snap models.SessionResponse
	testutil.AssertJSON(t, w, &snap)
	if snap.Snapshot.LastError == nil {
		t.Error("Expected last_error to persist until the next operation")
	}

	w = env.verify(t, id, testOTP)
	testutil.AssertStatus(t, w, http.StatusOK)
	var done models.SessionResponse
	testutil.AssertJSON(t, w, &done)
	if done.Snapshot.LastError != nil {
		t.Errorf("Expected last_error cleared, got %q", *done.Snapshot.LastError)
	}
}

func TestSubmitOTP_Completed(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)
	env.authenticate(t, id, adult)

	w := env.verify(t, id, testOTP)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Snapshot.Voter == nil {
		t.Fatal("Expected voter in snapshot")
	}
	if resp.Snapshot.Voter.FullName != "PRIYA SHARMA" {
		t.Errorf("Expected PRIYA SHARMA, got %s", resp.Snapshot.Voter.FullName)
	}
	if resp.Snapshot.Voter.HasVoted {
		t.Error("Expected voter not to have voted yet")
	}
}

func TestSubmitOTP_Expired(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)
	env.authenticate(t, id, adult)

	env.clock.Advance(session.DefaultOTPTTL + time.Second)

	w := env.verify(t, id, testOTP)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.SessionErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Snapshot.State != models.StateAwaitingCredentials {
		t.Errorf("Expected state %s, got %s", models.StateAwaitingCredentials, resp.Snapshot.State)
	}
	if !strings.Contains(resp.Message, "expired") {
		t.Errorf("Expected expiry message, got %q", resp.Message)
	}
	if resp.Snapshot.LastError == nil || *resp.Snapshot.LastError != resp.Message {
		t.Error("Expected last_error to carry the message")
	}
}

func TestSubmitOTP_WithoutChallenge(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)

	w := env.verify(t, id, testOTP)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestResendOTP(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.DemoMode = true
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(t, directory.NewMemoryDirectory(seedVoters(now)...), cfg)
	id := env.open(t)

	t.Run("without voter", func(t *testing.T) {
		w := call(env.handler.ResendOTP, "POST", "/sessions/"+id+"/otp/resend", id, nil)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("after authentication", func(t *testing.T) {
		testutil.AssertStatus(t, env.authenticate(t, id, adult), http.StatusOK)
		env.clock.Advance(4 * time.Minute)

		w := call(env.handler.ResendOTP, "POST", "/sessions/"+id+"/otp/resend", id, nil)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.SessionResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Snapshot.State != models.StateAwaitingOTP {
			t.Errorf("Expected state %s, got %s", models.StateAwaitingOTP, resp.Snapshot.State)
		}
		want := env.clock.Now().Add(session.DefaultOTPTTL)
		if got := resp.Snapshot.Voter.OTPExpiresAt; got == nil || !got.Equal(want) {
			t.Errorf("Expected new expiry %v, got %v", want, got)
		}

		// The fresh code outlives the original expiry
		env.clock.Advance(2 * time.Minute)
		testutil.AssertStatus(t, env.verify(t, id, testOTP), http.StatusOK)
	})
}

func TestCastVote(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)

	// Not authenticated yet
	w := call(env.handler.CastVote, "POST", "/sessions/"+id+"/vote", id, nil)
	testutil.AssertStatus(t, w, http.StatusConflict)

	env.authenticate(t, id, adult)
	testutil.AssertStatus(t, env.verify(t, id, testOTP), http.StatusOK)

	w = call(env.handler.CastVote, "POST", "/sessions/"+id+"/vote", id, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Snapshot.Voter == nil || !resp.Snapshot.Voter.HasVoted {
		t.Fatal("Expected voter to be marked as voted")
	}
	first := resp.Snapshot.Voter.VotingTimestamp
	if first == nil || !first.Equal(env.clock.Now()) {
		t.Errorf("Expected voting timestamp %v, got %v", env.clock.Now(), first)
	}

	env.clock.Advance(time.Minute)
	w = call(env.handler.CastVote, "POST", "/sessions/"+id+"/vote", id, nil)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var again models.SessionErrorResponse
	testutil.AssertJSON(t, w, &again)
	if !again.Snapshot.Voter.VotingTimestamp.Equal(*first) {
		t.Error("Expected the first voting timestamp to be kept")
	}
}

func TestResetSession(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)
	env.authenticate(t, id, adult)

	w := call(env.handler.Reset, "POST", "/sessions/"+id+"/reset", id, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Snapshot.State != models.StateAwaitingCredentials || resp.Snapshot.Voter != nil {
		t.Errorf("Expected a cleared session, got %+v", resp.Snapshot)
	}

	// The same session can authenticate again
	testutil.AssertStatus(t, env.authenticate(t, id, adult), http.StatusOK)
}

func TestDeleteSession(t *testing.T) {
	env := newMemoryEnv(t, testutil.GetTestConfig())
	id := env.open(t)

	w := call(env.handler.Delete, "DELETE", "/sessions/"+id, id, nil)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = call(env.handler.Delete, "DELETE", "/sessions/"+id, id, nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = call(env.handler.Get, "GET", "/sessions/"+id, id, nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

// downDirectory fails every call the way an unreachable database would.
type downDirectory struct{}

var errDown = errors.New("connection refused")

func (downDirectory) Find(context.Context, string, string, string) ([]models.VoterRecord, error) {
	return nil, errDown
}

func (downDirectory) GetByID(context.Context, string) (models.VoterRecord, error) {
	return models.VoterRecord{}, errDown
}

func (downDirectory) UpdateByID(context.Context, string, models.VoterPatch) (models.VoterRecord, error) {
	return models.VoterRecord{}, errDown
}

func TestDirectoryUnavailable(t *testing.T) {
	env := newTestEnv(t, downDirectory{}, testutil.GetTestConfig())
	id := env.open(t)

	w := env.authenticate(t, id, adult)
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)

	var resp models.SessionErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Retryable {
		t.Error("Expected directory failure to be retryable")
	}
	if strings.Contains(resp.Message, errDown.Error()) {
		t.Error("Expected internal error text to stay out of the message")
	}
	if resp.Snapshot.State != models.StateAwaitingCredentials {
		t.Errorf("Expected state %s, got %s", models.StateAwaitingCredentials, resp.Snapshot.State)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{session.ErrNotFound, http.StatusNotFound},
		{session.ErrIneligible, http.StatusForbidden},
		{session.ErrInvalidState, http.StatusConflict},
		{session.ErrExpired, http.StatusConflict},
		{session.ErrInvalidCode, http.StatusUnauthorized},
		{session.ErrAlreadyVoted, http.StatusConflict},
		{session.ErrNoActiveSession, http.StatusConflict},
		{session.ErrDirectoryUnavailable, http.StatusServiceUnavailable},
		{session.ErrBusy, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", session.ErrExpired), http.StatusConflict},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}
