// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs completion with method, path, status and duration_ms. Client addresses
are left to the handlers, which log a salted hash.

# Recovery and CORS

	server := http.Server{
		Handler: middleware.Recover(middleware.CORS(mux)),
	}

CORS allows GET, POST, DELETE and OPTIONS with the Content-Type header.
Preflight requests are answered with 204 and never reach the mux.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.SubmitOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

Bodies larger than MaxBodyBytes are truncated and fail to decode.

# Client IP Extraction

	ip := middleware.GetClientIP(r)
*/
package middleware
