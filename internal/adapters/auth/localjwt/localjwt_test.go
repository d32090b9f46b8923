package localjwt

import (
	"context"
	"testing"
	"time"
)

func TestIssueAndVerify_Roundtrip(t *testing.T) {
	p, err := New("test-secret")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := p.Issue(context.Background(), "user-1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := p.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.UserID)
	}
	if claims.Email != "ana@example.com" {
		t.Fatalf("expected email claim, got %q", claims.Email)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuerSide, _ := New("secret-a")
	verifierSide, _ := New("secret-b")

	token, err := issuerSide.Issue(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifierSide.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected verify to fail with wrong secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	p, _ := New("test-secret")

	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return issuedAt }

	token, err := p.Issue(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// 8 días después: el token de 7 días ya venció
	p.now = func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) }

	if _, err := p.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestNew_EmptySecret(t *testing.T) {
	if _, err := New("   "); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestVerify_Garbage(t *testing.T) {
	p, _ := New("test-secret")
	if _, err := p.Verify(context.Background(), "not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
