package services

import (
	"testing"
	"time"

	"guardian-control/backend/app/apperr"
	jwtutil "guardian-control/backend/app/jwt"
)

func TestMintRoundTripAndClamp(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")

	minted, err := env.tokens.Mint(d.DeviceCode, "parent-1", 24*time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if remaining := time.Until(minted.ExpiresAt); remaining > time.Hour+time.Minute {
		t.Fatalf("ttl not clamped: expires in %v", remaining)
	}

	claims, device, err := env.tokens.Verify(minted.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != d.DeviceCode || claims.Role != jwtutil.RoleDevice || claims.OwnerID != "parent-1" {
		t.Fatalf("claims = %+v", claims)
	}
	if device.ID != d.ID {
		t.Fatalf("verify resolved wrong device")
	}
}

func TestMintRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")
	if _, err := env.tokens.Mint(d.DeviceCode, "parent-2", time.Minute); !apperr.IsKind(err, apperr.Authorization) {
		t.Fatalf("got %v, want authorization", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")

	issued := time.Now().Add(-2 * time.Hour)
	env.signer.Now = func() time.Time { return issued }
	minted, err := env.tokens.Mint(d.DeviceCode, "parent-1", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	// Still inside the window from the issuer's clock.
	if _, _, err := env.tokens.Verify(minted.Token); err != nil {
		t.Fatalf("verify at issue time: %v", err)
	}

	env.signer.Now = nil // back to the real clock, two hours past issue
	if _, _, err := env.tokens.Verify(minted.Token); !apperr.IsKind(err, apperr.Authentication) {
		t.Fatalf("expired token: got %v, want authentication", err)
	}
}

func TestRotatePersistsStandingToken(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")

	first, err := env.tokens.Rotate(d.ID, "parent-1")
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	got, err := env.registry.LookupByID(d.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.CurrentToken != first.Token {
		t.Fatalf("standing token not persisted")
	}

	env.signer.Now = func() time.Time { return time.Now().Add(time.Second) }
	second, err := env.tokens.Rotate(d.ID, "parent-1")
	if err != nil {
		t.Fatalf("second rotate: %v", err)
	}
	if second.Token == first.Token {
		t.Fatalf("rotation produced the same token")
	}
	got, _ = env.registry.LookupByID(d.ID)
	if got.CurrentToken != second.Token {
		t.Fatalf("rotation must overwrite the standing token")
	}
}

func TestRotateNotOwnedLooksLikeNotFound(t *testing.T) {
	env := newTestEnv(t)
	d := env.registerActive(t, "parent-1")
	if _, err := env.tokens.Rotate(d.ID, "parent-2"); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestBootstrapBoundary(t *testing.T) {
	env := newTestEnv(t)
	d, err := env.registry.Register("")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := env.tokens.Bootstrap(d.DeviceCode, "s3cret"); err != nil {
		t.Fatalf("bootstrap unowned: %v", err)
	}
	if err := env.tokens.VerifyBootstrapSecret(d.DeviceCode, "s3cret"); err != nil {
		t.Fatalf("verify secret: %v", err)
	}
	if err := env.tokens.VerifyBootstrapSecret(d.DeviceCode, "wrong"); !apperr.IsKind(err, apperr.Authorization) {
		t.Fatalf("wrong secret: got %v, want authorization", err)
	}

	if _, err := env.registry.Activate(d.DeviceCode, "parent-1", ""); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := env.tokens.Bootstrap(d.DeviceCode, "other"); !apperr.IsKind(err, apperr.Authorization) {
		t.Fatalf("bootstrap owned device: got %v, want authorization", err)
	}
}

func TestBootstrapRequiresSecret(t *testing.T) {
	env := newTestEnv(t)
	d, _ := env.registry.Register("")
	if err := env.tokens.Bootstrap(d.DeviceCode, ""); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("got %v, want validation", err)
	}
}
