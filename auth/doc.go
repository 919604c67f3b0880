// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides randomness and comparison helpers for voter sessions.

# One-Time Passcodes

Codes are six decimal digits drawn uniformly from [100000, 999999]:

	code, err := auth.GenerateOTP()

Entered codes are compared in constant time:

	ok := auth.CodesMatch(entered, stored)

# ID Generation

Random hex IDs for directory records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Client addresses are hashed before they reach the logs:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
