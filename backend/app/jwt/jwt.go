package jwtutil

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	RoleDevice = "device"
	RoleParent = "parent"
	RoleAdmin  = "admin"
)

type Claims struct {
	OwnerID string `json:"owner_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

type Signer struct {
	Secret []byte
	Issuer string
	// MaxDeviceTTL caps short-lived device tokens regardless of the requested ttl.
	MaxDeviceTTL time.Duration
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SignDevice mints a device token with subject = device code. ttl is clamped
// to MaxDeviceTTL; this path never issues long-lived tokens.
func (s *Signer) SignDevice(deviceCode, ownerID string, ttl time.Duration) (string, time.Time, error) {
	if s.MaxDeviceTTL > 0 && (ttl <= 0 || ttl > s.MaxDeviceTTL) {
		ttl = s.MaxDeviceTTL
	}
	return s.sign(deviceCode, ownerID, "", RoleDevice, ttl)
}

// SignStanding mints the device's standing credential. No clamp: the caller
// passes the configured standing lifetime directly.
func (s *Signer) SignStanding(deviceCode, ownerID string, ttl time.Duration) (string, time.Time, error) {
	return s.sign(deviceCode, ownerID, "", RoleDevice, ttl)
}

// SignUser mints an account bearer token (parent or admin).
func (s *Signer) SignUser(userID, name, role string, ttl time.Duration) (string, time.Time, error) {
	return s.sign(userID, userID, name, role, ttl)
}

func (s *Signer) sign(subject, ownerID, name, role string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	claims := Claims{
		OwnerID: ownerID, Name: name, Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	return signed, exp, err
}

func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
