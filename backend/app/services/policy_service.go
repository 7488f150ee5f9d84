package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/dto"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/repo"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const policyCachePrefix = "guardian:policy:"

// Fixed safe defaults for fields absent from both policy layers.
var defaultDNSAllowlist = []string{"dns.guardiangate.net", "family.cloudflare-dns.com"}

const (
	defaultSafeSearch     = true
	defaultKillSwitchMode = "pause"
)

type PolicyService struct {
	policies *repo.PolicyRepository
	rdb      *redis.Client // optional result cache; nil disables it
	cacheTTL time.Duration
	logger   zerolog.Logger
}

func NewPolicyService(policies *repo.PolicyRepository, rdb *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) *PolicyService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &PolicyService{policies: policies, rdb: rdb, cacheTTL: cacheTTL, logger: logger}
}

// Resolve produces the effective policy for one client. Child-scoped fields
// win over network-scoped ones; anything absent from both layers falls back
// to the fixed defaults. Pure read-side projection: total over every input
// combination, including no client mapping at all.
func (s *PolicyService) Resolve(ctx context.Context, parentID, clientID, mac string) (*dto.EffectivePolicy, error) {
	if parentID == "" {
		return nil, apperr.New(apperr.Validation, "parent_id is required")
	}
	if clientID == "" && mac == "" {
		return nil, apperr.New(apperr.Validation, "client_id or mac is required")
	}
	cacheKey := policyCachePrefix + parentID + ":" + clientID + ":" + mac
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	client, err := s.findClient(parentID, clientID, mac)
	if err != nil {
		return nil, err
	}

	var profile *models.NetworkPolicyProfile
	var override *models.ChildPolicyOverride
	if client != nil && client.ProfileID != nil {
		profile, err = s.loadProfile(*client.ProfileID)
		if err != nil {
			return nil, err
		}
	}
	if client != nil && client.ChildID != nil {
		override, err = s.loadOverride(*client.ChildID)
		if err != nil {
			return nil, err
		}
	}

	eff := merge(profile, override)
	if client != nil {
		if client.ProfileID != nil {
			eff.ProfileID = *client.ProfileID
		}
		if client.ChildID != nil {
			eff.ChildID = *client.ChildID
		}
	}
	s.cacheSet(ctx, cacheKey, eff)
	return eff, nil
}

// merge applies child > network > defaults, field by field.
func merge(profile *models.NetworkPolicyProfile, override *models.ChildPolicyOverride) *dto.EffectivePolicy {
	eff := &dto.EffectivePolicy{
		SafeSearch:        defaultSafeSearch,
		KillSwitchMode:    defaultKillSwitchMode,
		DNSAllowlist:      append([]string(nil), defaultDNSAllowlist...),
		BlockedCategories: []string{},
	}
	if profile != nil {
		if profile.SafeSearch != nil {
			eff.SafeSearch = *profile.SafeSearch
		}
		if profile.KillSwitchMode != nil {
			eff.KillSwitchMode = *profile.KillSwitchMode
		}
		if list := decodeList(profile.DNSAllowlist); list != nil {
			eff.DNSAllowlist = list
		}
		if list := decodeList(profile.BlockedCategories); list != nil {
			eff.BlockedCategories = list
		}
	}
	if override != nil {
		if override.SafeSearch != nil {
			eff.SafeSearch = *override.SafeSearch
		}
		if override.KillSwitchMode != nil {
			eff.KillSwitchMode = *override.KillSwitchMode
		}
		if list := decodeList(override.DNSAllowlist); list != nil {
			eff.DNSAllowlist = list
		}
		if list := decodeList(override.BlockedCategories); list != nil {
			eff.BlockedCategories = list
		}
	}
	return eff
}

func decodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// findClient tolerates a missing mapping: an unmapped client still gets the
// default policy rather than an error.
func (s *PolicyService) findClient(parentID, clientID, mac string) (*models.PolicyClient, error) {
	var (
		client *models.PolicyClient
		err    error
	)
	if clientID != "" {
		client, err = s.policies.ClientByID(parentID, clientID)
	} else {
		client, err = s.policies.ClientByMAC(parentID, mac)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Internal, "lookup client", err)
	}
	return client, nil
}

func (s *PolicyService) loadProfile(id string) (*models.NetworkPolicyProfile, error) {
	p, err := s.policies.ProfileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Internal, "load profile", err)
	}
	return p, nil
}

func (s *PolicyService) loadOverride(childID string) (*models.ChildPolicyOverride, error) {
	o, err := s.policies.OverrideByChild(childID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Internal, "load override", err)
	}
	return o, nil
}

func (s *PolicyService) cacheGet(ctx context.Context, key string) *dto.EffectivePolicy {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("policy cache read failed")
		}
		return nil
	}
	var eff dto.EffectivePolicy
	if json.Unmarshal(raw, &eff) != nil {
		return nil
	}
	return &eff
}

func (s *PolicyService) cacheSet(ctx context.Context, key string, eff *dto.EffectivePolicy) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(eff)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("policy cache write failed")
	}
}
