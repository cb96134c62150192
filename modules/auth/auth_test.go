package auth

import (
	"context"
	"testing"
	"time"
)

type noDeps struct{}

func (noDeps) Get(name string) (any, bool) { return nil, false }

func TestIssueAndVerifyTokenRoundTrip(t *testing.T) {
	m := New(Config{SigningKey: "test-secret", Issuer: "gati-test", TokenTTL: time.Minute})
	exports, err := m.Init(context.Background(), noDeps{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	e := exports.(Exports)

	token, err := e.IssueToken("user-1", "tok-1")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := e.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("Subject = %q, want user-1", claims.Subject)
	}
	if claims.ID != "tok-1" {
		t.Fatalf("ID = %q, want tok-1", claims.ID)
	}
}

func TestVerifyTokenRejectsBadSignature(t *testing.T) {
	m1 := New(Config{SigningKey: "secret-one", Issuer: "gati-test"})
	exports1, _ := m1.Init(context.Background(), noDeps{})
	e1 := exports1.(Exports)

	token, err := e1.IssueToken("user-1", "tok-1")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	m2 := New(Config{SigningKey: "secret-two", Issuer: "gati-test"})
	exports2, _ := m2.Init(context.Background(), noDeps{})
	e2 := exports2.(Exports)

	if _, err := e2.VerifyToken(context.Background(), token); err == nil {
		t.Fatalf("expected verification to fail across differing signing keys")
	}
}

func TestInitRequiresSigningKey(t *testing.T) {
	m := New(Config{})
	if _, err := m.Init(context.Background(), noDeps{}); err == nil {
		t.Fatalf("expected error for empty signing key")
	}
}

func TestHashAndVerifySecretRoundTrip(t *testing.T) {
	m := New(Config{SigningKey: "secret"})
	exports, _ := m.Init(context.Background(), noDeps{})
	e := exports.(Exports)

	hash, err := e.HashSecret("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if err := e.VerifySecret(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("VerifySecret: %v", err)
	}
	if err := e.VerifySecret(hash, "wrong password"); err == nil {
		t.Fatalf("expected VerifySecret to reject a wrong password")
	}
}

func TestRevokeWithoutDenylistReturnsError(t *testing.T) {
	m := New(Config{SigningKey: "secret"})
	exports, _ := m.Init(context.Background(), noDeps{})
	e := exports.(Exports)

	if err := e.Revoke(context.Background(), "tok-1"); err == nil {
		t.Fatalf("expected error when no cache dependency is wired")
	}
}

func TestHealthCheckAlwaysSucceeds(t *testing.T) {
	m := New(Config{SigningKey: "secret"})
	if err := m.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
