// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

// OTP codes are always six digits with no leading zero.
const (
	OTPMin = 100000
	OTPMax = 999999
)

var otpSpan = big.NewInt(OTPMax - OTPMin + 1)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateOTP returns a uniformly random code in [OTPMin, OTPMax].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpan)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return strconv.FormatInt(n.Int64()+OTPMin, 10), nil
}

// CodesMatch compares an entered code with the stored one in constant time
func CodesMatch(entered, stored string) bool {
	return hmac.Equal([]byte(entered), []byte(stored))
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for correlating log lines
	return hex.EncodeToString(sum[:8])
}
