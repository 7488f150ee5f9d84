package services

import (
	"time"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/repo"

	jwtutil "guardian-control/backend/app/jwt"

	"golang.org/x/crypto/bcrypt"
)

type TokenService struct {
	signer      *jwtutil.Signer
	devices     *repo.DeviceRepository
	secrets     *repo.BootstrapSecretRepository
	registry    *DeviceService
	standingTTL time.Duration
}

func NewTokenService(signer *jwtutil.Signer, devices *repo.DeviceRepository, secrets *repo.BootstrapSecretRepository, registry *DeviceService, standingTTL time.Duration) *TokenService {
	if standingTTL <= 0 {
		standingTTL = 30 * 24 * time.Hour
	}
	return &TokenService{
		signer: signer, devices: devices, secrets: secrets,
		registry: registry, standingTTL: standingTTL,
	}
}

type MintedToken struct {
	Token     string
	ExpiresAt time.Time
}

// Mint issues a short-lived device token for a device the caller owns. The
// ttl is clamped by the signer; this path never issues standing credentials.
func (s *TokenService) Mint(deviceCode, ownerID string, ttl time.Duration) (*MintedToken, error) {
	d, err := s.registry.LookupByCode(deviceCode)
	if err != nil {
		return nil, err
	}
	if !d.OwnedBy(ownerID) {
		return nil, apperr.New(apperr.Authorization, "device not owned by caller")
	}
	token, exp, err := s.signer.SignDevice(d.DeviceCode, ownerID, ttl)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "sign token", err)
	}
	return &MintedToken{Token: token, ExpiresAt: exp}, nil
}

// Rotate mints a fresh standing token and persists it as the device's only
// valid standing credential; the overwrite invalidates the previous one.
// Ownership failures surface as not-found so callers cannot probe for codes.
func (s *TokenService) Rotate(deviceID, ownerID string) (*MintedToken, error) {
	d, err := s.registry.LookupByID(deviceID)
	if err != nil {
		return nil, err
	}
	if !d.OwnedBy(ownerID) {
		return nil, apperr.New(apperr.NotFound, "device not found")
	}
	token, exp, err := s.signer.SignStanding(d.DeviceCode, ownerID, s.standingTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "sign token", err)
	}
	if err := s.devices.SetCurrentToken(d.ID, token); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "persist token", err)
	}
	return &MintedToken{Token: token, ExpiresAt: exp}, nil
}

// Bootstrap stores a one-way hash of a secret a brand-new device sets on
// itself before any owner exists. Rejecting owned devices is a hard security
// boundary: trust on a claimed device cannot be reset from outside.
func (s *TokenService) Bootstrap(deviceCode, secret string) error {
	if secret == "" {
		return apperr.New(apperr.Validation, "refresh_secret is required")
	}
	d, err := s.registry.LookupByCode(deviceCode)
	if err != nil {
		return err
	}
	if d.Owned() {
		return apperr.New(apperr.Authorization, "device already paired")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "hash secret", err)
	}
	if err := s.secrets.Upsert(deviceCode, string(hash)); err != nil {
		return apperr.Wrap(apperr.Internal, "store secret", err)
	}
	return nil
}

// VerifyBootstrapSecret proves device continuity across the pairing boundary.
func (s *TokenService) VerifyBootstrapSecret(deviceCode, secret string) error {
	rec, err := s.secrets.FindByCode(deviceCode)
	if err != nil {
		return apperr.New(apperr.Authorization, "no bootstrap secret for device")
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.SecretHash), []byte(secret)) != nil {
		return apperr.New(apperr.Authorization, "bootstrap secret mismatch")
	}
	return nil
}

// Verify parses a device token and returns the device it names.
func (s *TokenService) Verify(token string) (*jwtutil.Claims, *models.Device, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Authentication, "invalid token", err)
	}
	if claims.Role != jwtutil.RoleDevice {
		return nil, nil, apperr.New(apperr.Authentication, "not a device token")
	}
	d, err := s.registry.LookupByCode(claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	return claims, d, nil
}
