package domain

import (
	"testing"
	"time"
)

func TestAuthContext_IsAdmin(t *testing.T) {
	admin := &AuthContext{Subject: "admin", Role: RoleAdmin}
	viewer := &AuthContext{Subject: "analyst", Role: RoleViewer}

	if !admin.IsAdmin() {
		t.Error("expected admin to be admin")
	}
	if viewer.IsAdmin() {
		t.Error("expected viewer not to be admin")
	}
}

func TestTokenClaims_IsExpired(t *testing.T) {
	now := time.Now()

	valid := &TokenClaims{Subject: "admin", IssuedAt: now.Unix(), ExpiresAt: now.Add(time.Hour).Unix()}
	if valid.IsExpired() {
		t.Error("expected claims not to be expired")
	}

	expired := &TokenClaims{Subject: "admin", IssuedAt: now.Add(-2 * time.Hour).Unix(), ExpiresAt: now.Add(-time.Hour).Unix()}
	if !expired.IsExpired() {
		t.Error("expected claims to be expired")
	}
}
