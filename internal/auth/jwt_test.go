package auth

import (
	"testing"
	"time"

	"warden/internal/entity"
)

func TestNewManagerAndTokenLifecycle(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", time.Minute*30)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	account := &entity.Account{ID: 42, UserName: "alice"}
	sessionID := NewSessionID()
	token, expiresAt, err := mgr.GenerateToken(account, sessionID)
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("expected future expiry time")
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error parsing token: %v", err)
	}
	if claims.AccountID != account.ID {
		t.Fatalf("expected account id %d, got %d", account.ID, claims.AccountID)
	}
	if claims.UserName != account.UserName {
		t.Fatalf("expected user name %s, got %s", account.UserName, claims.UserName)
	}
	if claims.ID != sessionID {
		t.Fatalf("expected session id %s, got %s", sessionID, claims.ID)
	}
}

func TestParseTokenRejectsForeignIssuer(t *testing.T) {
	a, _ := NewManager("test-secret", "a", time.Minute)
	b, _ := NewManager("test-secret", "b", time.Minute)

	token, _, err := a.GenerateToken(&entity.Account{ID: 1, UserName: "root"}, NewSessionID())
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}
	if _, err := b.ParseToken(token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestGenerateTokenRequiresSession(t *testing.T) {
	mgr, _ := NewManager("test-secret", "", time.Minute)
	if _, _, err := mgr.GenerateToken(&entity.Account{ID: 1}, ""); err == nil {
		t.Fatal("expected error for empty session id")
	}
	if _, _, err := mgr.GenerateToken(&entity.Account{}, NewSessionID()); err == nil {
		t.Fatal("expected error for zero account id")
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("   ", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
