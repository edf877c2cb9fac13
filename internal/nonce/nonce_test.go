// file: internal/nonce/nonce_test.go
// version: 1.0.0
// guid: 5c6d7e8f-9a0b-1c2d-3e4f-5a6b7c8d9e0f

package nonce

import (
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	i := NewIssuer("secret", time.Hour)
	token := i.Issue("session-a")
	if !i.Verify("session-a", token) {
		t.Fatal("expected freshly issued token to verify")
	}
}

func TestVerifyRejectsOtherSession(t *testing.T) {
	i := NewIssuer("secret", time.Hour)
	token := i.Issue("session-a")
	if i.Verify("session-b", token) {
		t.Fatal("token must be bound to its session")
	}
}

func TestVerifyRejectsEmptyInputs(t *testing.T) {
	i := NewIssuer("secret", time.Hour)
	if i.Verify("", i.Issue("s")) {
		t.Fatal("empty session must fail")
	}
	if i.Verify("s", "") {
		t.Fatal("empty token must fail")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	i := NewIssuer("secret", time.Hour)
	if i.Verify("session-a", "deadbeef0000") {
		t.Fatal("forged token must fail")
	}
}

func TestVerifyAcceptsPreviousWindow(t *testing.T) {
	i := NewIssuer("secret", time.Hour)
	// Fixed base keeps the window arithmetic deterministic.
	base := time.Unix(1700000000, 0)

	i.now = func() time.Time { return base }
	token := i.Issue("session-a")

	// Just over half the lifetime later we are one window further on; the
	// token must still be accepted.
	i.now = func() time.Time { return base.Add(31 * time.Minute) }
	if !i.Verify("session-a", token) {
		t.Fatal("token from previous window must verify")
	}
}

func TestVerifyRejectsExpiredWindow(t *testing.T) {
	i := NewIssuer("secret", time.Hour)
	base := time.Unix(1700000000, 0)

	i.now = func() time.Time { return base }
	token := i.Issue("session-a")

	// Two windows later the token has aged out.
	i.now = func() time.Time { return base.Add(61 * time.Minute) }
	if i.Verify("session-a", token) {
		t.Fatal("token older than the lifetime must fail")
	}
}

func TestDifferentSecretsDisagree(t *testing.T) {
	a := NewIssuer("secret-a", time.Hour)
	b := NewIssuer("secret-b", time.Hour)
	if b.Verify("s", a.Issue("s")) {
		t.Fatal("token must not verify under a different secret")
	}
}
