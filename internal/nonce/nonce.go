// file: internal/nonce/nonce.go
// version: 1.0.0
// guid: 1b2c3d4e-5f6a-7b8c-9d0e-1f2a3b4c5d6e

// Package nonce issues and verifies the per-session anti-forgery tokens the
// detail endpoint requires. A token is an HMAC over the session id and a
// coarse time window, so it needs no server-side storage and survives
// restarts as long as the secret is stable.
package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// DefaultLifetime matches the cache TTL: a page older than this has stale
// data anyway and a reload is reasonable.
const DefaultLifetime = 24 * time.Hour

// tokenLen is the emitted hex length. Truncation keeps tokens URL-friendly;
// 12 hex chars (48 bits) is plenty against online guessing behind the rate
// limiter.
const tokenLen = 12

// Issuer creates and checks tokens bound to a session identifier.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewIssuer creates an Issuer with the given secret. A non-positive lifetime
// falls back to DefaultLifetime.
func NewIssuer(secret string, lifetime time.Duration) *Issuer {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Issuer{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Issue returns the token for the given session in the current time window.
func (i *Issuer) Issue(session string) string {
	return i.tokenAt(session, i.window(0))
}

// Verify reports whether token is valid for session. Tokens from the current
// and the immediately preceding window are accepted, so a token stays usable
// for at least half the lifetime and at most the full lifetime.
func (i *Issuer) Verify(session, token string) bool {
	if session == "" || token == "" {
		return false
	}
	for _, w := range []int64{i.window(0), i.window(-1)} {
		expected := i.tokenAt(session, w)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1 {
			return true
		}
	}
	return false
}

// window returns the tick index offset from the current one. Ticks are half
// the lifetime so accepting two adjacent windows spans the full lifetime.
func (i *Issuer) window(offset int64) int64 {
	tick := int64(i.lifetime / 2 / time.Second)
	if tick < 1 {
		tick = 1
	}
	return i.now().Unix()/tick + offset
}

func (i *Issuer) tokenAt(session string, window int64) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(session))
	mac.Write([]byte{'|'})
	var buf [8]byte
	for n := 0; n < 8; n++ {
		buf[n] = byte(window >> (8 * n))
	}
	mac.Write(buf[:])
	return hex.EncodeToString(mac.Sum(nil))[:tokenLen]
}
