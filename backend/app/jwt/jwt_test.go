package jwtutil

import (
	"testing"
	"time"
)

func TestSignDeviceClampsTTL(t *testing.T) {
	s := &Signer{Secret: []byte("k"), Issuer: "t", MaxDeviceTTL: time.Hour}

	cases := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"over the cap", 24 * time.Hour, time.Hour},
		{"zero", 0, time.Hour},
		{"negative", -time.Minute, time.Hour},
		{"under the cap", 5 * time.Minute, 5 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, exp, err := s.SignDevice("GG-AAAA-BBBB", "p1", tc.ttl)
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			got := time.Until(exp)
			if got > tc.want+time.Minute || got < tc.want-time.Minute {
				t.Fatalf("expiry in %v, want about %v", got, tc.want)
			}
		})
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	a := &Signer{Secret: []byte("alpha"), Issuer: "t", MaxDeviceTTL: time.Hour}
	b := &Signer{Secret: []byte("beta"), Issuer: "t", MaxDeviceTTL: time.Hour}

	tok, _, err := a.SignDevice("GG-AAAA-BBBB", "p1", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := a.Parse(tok); err != nil {
		t.Fatalf("parse with right secret: %v", err)
	}
	if _, err := b.Parse(tok); err == nil {
		t.Fatalf("parse with wrong secret must fail")
	}
}

func TestStandingTokenNotClamped(t *testing.T) {
	s := &Signer{Secret: []byte("k"), Issuer: "t", MaxDeviceTTL: time.Hour}
	_, exp, err := s.SignStanding("GG-AAAA-BBBB", "p1", 30*24*time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if time.Until(exp) < 29*24*time.Hour {
		t.Fatalf("standing token clamped: %v", time.Until(exp))
	}
}
