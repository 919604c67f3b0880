package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lakshita2255/Voter-auth-project/auth"
	"github.com/Lakshita2255/Voter-auth-project/cliparse"
	"github.com/Lakshita2255/Voter-auth-project/middleware"
	"github.com/Lakshita2255/Voter-auth-project/models"
	"github.com/Lakshita2255/Voter-auth-project/session"
)

type SessionHandler struct {
	registry *session.Registry
	cfg      cliparse.Config
}

func NewSessionHandler(registry *session.Registry, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{registry: registry, cfg: cfg}
}

// statusFor maps a session error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrIneligible):
		return http.StatusForbidden
	case errors.Is(err, session.ErrInvalidCode):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrDirectoryUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrInvalidState),
		errors.Is(err, session.ErrExpired),
		errors.Is(err, session.ErrAlreadyVoted),
		errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// clientHash identifies the caller in logs without recording the address.
func (h *SessionHandler) clientHash(r *http.Request) string {
	return auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt)
}

// lookup resolves the {id} path value, writing a 404 when the session is gone.
func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.VotingSession, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return nil, false
	}
	s, ok := h.registry.Get(id)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found or expired")
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) respond(w http.ResponseWriter, status int, s *session.VotingSession, message string) {
	resp := models.SessionResponse{
		SessionID: s.ID(),
		Snapshot:  s.Snapshot(),
		Message:   message,
	}
	if h.cfg.DemoMode {
		if code, ok := s.PendingOTP(); ok {
			resp.DemoOTP = code
		}
	}
	middleware.JSONResponse(w, status, resp)
}

func (h *SessionHandler) fail(w http.ResponseWriter, s *session.VotingSession, err error) {
	status := statusFor(err)
	middleware.JSONResponse(w, status, models.SessionErrorResponse{
		Error:     http.StatusText(status),
		Message:   session.Message(err),
		Retryable: session.Retryable(err),
		Snapshot:  s.Snapshot(),
	})
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.registry.Create()

	slog.Info("session created", "session_id", s.ID(), "client", h.clientHash(r))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: s.ID(),
		Snapshot:  s.Snapshot(),
	})
}

// Get handles GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, s, "")
}

// SubmitCredentials handles POST /sessions/{id}/credentials
func (h *SessionHandler) SubmitCredentials(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SubmitCredentialsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	creds := models.Credentials{
		VoterID:    strings.TrimSpace(req.VoterID),
		NationalID: strings.TrimSpace(req.NationalID),
		Phone:      strings.TrimSpace(req.Phone),
	}
	switch {
	case creds.VoterID == "":
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	case creds.NationalID == "":
		middleware.ErrorResponse(w, http.StatusBadRequest, "national_id is required")
		return
	case creds.Phone == "":
		middleware.ErrorResponse(w, http.StatusBadRequest, "phone is required")
		return
	}

	voter, err := s.Authenticate(r.Context(), creds)
	if err != nil {
		h.fail(w, s, err)
		return
	}

	slog.Info("credentials accepted", "session_id", s.ID(), "client", h.clientHash(r))

	message := "OTP sent to your registered phone number."
	if voter.HasVoted {
		message = "You have already voted."
	}
	h.respond(w, http.StatusOK, s, message)
}

// SubmitOTP handles POST /sessions/{id}/otp
func (h *SessionHandler) SubmitOTP(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SubmitOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Code shape is not checked here; a wrong code is the session's InvalidCode
	code := strings.TrimSpace(req.Code)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}

	if _, err := s.VerifyOTP(r.Context(), code); err != nil {
		h.fail(w, s, err)
		return
	}
	h.respond(w, http.StatusOK, s, "Identity verified.")
}

// ResendOTP handles POST /sessions/{id}/otp/resend
func (h *SessionHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if _, err := s.ResendOTP(r.Context()); err != nil {
		h.fail(w, s, err)
		return
	}
	h.respond(w, http.StatusOK, s, "A new OTP has been sent.")
}

// CastVote handles POST /sessions/{id}/vote
func (h *SessionHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if _, err := s.CastVote(r.Context()); err != nil {
		h.fail(w, s, err)
		return
	}

	slog.Info("vote cast", "session_id", s.ID(), "client", h.clientHash(r))
	h.respond(w, http.StatusOK, s, "Your vote has been recorded.")
}

// Reset handles POST /sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	s.Reset()
	h.respond(w, http.StatusOK, s, "")
}

// Delete handles DELETE /sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.registry.Delete(id) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found or expired")
		return
	}

	slog.Info("session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}
