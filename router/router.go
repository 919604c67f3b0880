// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/Lakshita2255/Voter-auth-project/cliparse"
	"github.com/Lakshita2255/Voter-auth-project/directory"
	"github.com/Lakshita2255/Voter-auth-project/handlers"
	"github.com/Lakshita2255/Voter-auth-project/middleware"
	"github.com/Lakshita2255/Voter-auth-project/session"
)

func NewRouter(registry *session.Registry, dir directory.IdentityDirectory, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(registry, cfg)
	demoHandler := handlers.NewDemoHandler(dir, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session lifecycle
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.Create))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.Get))
	mux.HandleFunc("DELETE /sessions/{id}", middleware.WithLogging(sessionHandler.Delete))
	mux.HandleFunc("POST /sessions/{id}/reset", middleware.WithLogging(sessionHandler.Reset))

	// Authentication and voting
	mux.HandleFunc("POST /sessions/{id}/credentials", middleware.WithLogging(sessionHandler.SubmitCredentials))
	mux.HandleFunc("POST /sessions/{id}/otp", middleware.WithLogging(sessionHandler.SubmitOTP))
	mux.HandleFunc("POST /sessions/{id}/otp/resend", middleware.WithLogging(sessionHandler.ResendOTP))
	mux.HandleFunc("POST /sessions/{id}/vote", middleware.WithLogging(sessionHandler.CastVote))

	// Demo credentials (404 unless demo mode)
	mux.HandleFunc("GET /demo/voters", middleware.WithLogging(demoHandler.ListVoters))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voter-auth API v1"))
	})

	return mux
}
