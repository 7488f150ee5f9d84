package services

import (
	"context"
	"testing"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/models"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func (e *testEnv) seedPolicy(t *testing.T, profile *models.NetworkPolicyProfile, override *models.ChildPolicyOverride, client *models.PolicyClient) {
	t.Helper()
	if profile != nil {
		if err := e.gdb.Create(profile).Error; err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}
	if override != nil {
		if err := e.gdb.Create(override).Error; err != nil {
			t.Fatalf("seed override: %v", err)
		}
	}
	if client != nil {
		if err := e.gdb.Create(client).Error; err != nil {
			t.Fatalf("seed client: %v", err)
		}
	}
}

func TestResolveChildOverridesNetwork(t *testing.T) {
	env := newTestEnv(t)
	env.seedPolicy(t,
		&models.NetworkPolicyProfile{ID: "prof-1", ParentID: "p1", SafeSearch: boolPtr(false), KillSwitchMode: strPtr("block")},
		&models.ChildPolicyOverride{ID: "ov-1", ChildID: "child-1", SafeSearch: boolPtr(true)},
		&models.PolicyClient{ID: "cl-1", ParentID: "p1", MAC: "aa:bb:cc:dd:ee:ff", ProfileID: strPtr("prof-1"), ChildID: strPtr("child-1")},
	)

	eff, err := env.policies.Resolve(context.Background(), "p1", "cl-1", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !eff.SafeSearch {
		t.Fatalf("child override must win: %+v", eff)
	}
	if eff.KillSwitchMode != "block" {
		t.Fatalf("network value must apply where override is silent: %+v", eff)
	}
}

func TestResolveNetworkValueWithoutOverride(t *testing.T) {
	env := newTestEnv(t)
	env.seedPolicy(t,
		&models.NetworkPolicyProfile{ID: "prof-1", ParentID: "p1", SafeSearch: boolPtr(false), DNSAllowlist: `["dns.example.net"]`},
		nil,
		&models.PolicyClient{ID: "cl-1", ParentID: "p1", ProfileID: strPtr("prof-1")},
	)

	eff, err := env.policies.Resolve(context.Background(), "p1", "cl-1", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if eff.SafeSearch {
		t.Fatalf("network profile value ignored: %+v", eff)
	}
	if len(eff.DNSAllowlist) != 1 || eff.DNSAllowlist[0] != "dns.example.net" {
		t.Fatalf("allowlist = %v", eff.DNSAllowlist)
	}
}

func TestResolveDefaults(t *testing.T) {
	env := newTestEnv(t)

	// No mapping at all: resolve is total and falls back to the fixed defaults.
	eff, err := env.policies.Resolve(context.Background(), "p1", "unmapped", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !eff.SafeSearch {
		t.Fatalf("default safe_search must be true")
	}
	if eff.KillSwitchMode != "pause" {
		t.Fatalf("default kill switch = %q, want pause", eff.KillSwitchMode)
	}
	if len(eff.DNSAllowlist) == 0 {
		t.Fatalf("default allowlist must not be empty")
	}
	if eff.BlockedCategories == nil || len(eff.BlockedCategories) != 0 {
		t.Fatalf("blocked categories = %v", eff.BlockedCategories)
	}
}

func TestResolveByMAC(t *testing.T) {
	env := newTestEnv(t)
	env.seedPolicy(t,
		&models.NetworkPolicyProfile{ID: "prof-1", ParentID: "p1", KillSwitchMode: strPtr("off")},
		nil,
		&models.PolicyClient{ID: "cl-1", ParentID: "p1", MAC: "aa:bb:cc:dd:ee:ff", ProfileID: strPtr("prof-1")},
	)

	eff, err := env.policies.Resolve(context.Background(), "p1", "", "aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if eff.KillSwitchMode != "off" || eff.ProfileID != "prof-1" {
		t.Fatalf("eff = %+v", eff)
	}
}

func TestResolveValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.policies.Resolve(ctx, "", "cl", ""); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("missing parent: %v", err)
	}
	if _, err := env.policies.Resolve(ctx, "p1", "", ""); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("missing client identity: %v", err)
	}
}
