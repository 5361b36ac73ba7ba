// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// ReferenceAlphabet holds the 32 symbols used in reference codes.
// I, O, 0 and 1 are left out because they are easy to misread.
const ReferenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Reference prefixes per submission kind
const (
	PrefixFeedback = "FB"
	PrefixRemix    = "RX"
	PrefixConcern  = "DC"
)

var (
	ErrInvalidPrefix = errors.New("reference prefix must be two uppercase letters")

	referencePattern = regexp.MustCompile(`^[A-Z]{2}-\d{8}-[A-Z0-9]{4}$`)
	prefixPattern    = regexp.MustCompile(`^[A-Z]{2}$`)
)

// GenerateReference builds a human-readable reference code such as
// FB-20261018-K7QX. The date component is always the UTC date of now.
func GenerateReference(prefix string, now time.Time) (string, error) {
	if !prefixPattern.MatchString(prefix) {
		return "", ErrInvalidPrefix
	}

	max := big.NewInt(int64(len(ReferenceAlphabet)))
	code := make([]byte, 4)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate reference: %w", err)
		}
		code[i] = ReferenceAlphabet[n.Int64()]
	}

	return prefix + "-" + now.UTC().Format("20060102") + "-" + string(code), nil
}

// IsReference reports whether s has the shape of a reference code
func IsReference(s string) bool {
	return referencePattern.MatchString(s)
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
