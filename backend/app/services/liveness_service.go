package services

import (
	"context"
	"encoding/json"
	"time"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/repo"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const presenceKeyPrefix = "guardian:presence:"

type LivenessService struct {
	heartbeats *repo.HeartbeatRepository
	devices    *repo.DeviceRepository
	rdb        *redis.Client // optional presence cache; nil disables it
	grace      time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

func NewLivenessService(heartbeats *repo.HeartbeatRepository, devices *repo.DeviceRepository, rdb *redis.Client, grace time.Duration, logger zerolog.Logger) *LivenessService {
	if grace <= 0 {
		grace = 120 * time.Second
	}
	return &LivenessService{
		heartbeats: heartbeats, devices: devices, rdb: rdb,
		grace: grace, logger: logger, now: time.Now,
	}
}

func (s *LivenessService) Grace() time.Duration { return s.grace }

// IngestHeartbeat appends the record and marks the device online. The redis
// presence key expires on its own after the grace window, so a crashed agent
// drops out of the presence view without any write.
func (s *LivenessService) IngestHeartbeat(ctx context.Context, deviceID, agentVersion string, metrics, alerts json.RawMessage) error {
	now := s.now()
	affected, err := s.devices.TouchSeen(deviceID, now)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "update last_seen", err)
	}
	if affected == 0 {
		return apperr.New(apperr.Validation, "unknown device_id")
	}
	rec := &models.HeartbeatRecord{
		DeviceID:     deviceID,
		ReceivedAt:   now,
		AgentVersion: agentVersion,
		Metrics:      string(metrics),
		Alerts:       string(alerts),
	}
	if err := s.heartbeats.Create(rec); err != nil {
		return apperr.Wrap(apperr.Internal, "append heartbeat", err)
	}
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, presenceKeyPrefix+deviceID, now.Unix(), s.grace).Err(); err != nil {
			s.logger.Warn().Err(err).Str("device_id", deviceID).Msg("presence cache set failed")
		}
	}
	return nil
}

// SweepStale flips online devices with no heartbeat inside grace to offline.
// The staleness condition is re-evaluated by the store at write time, so a
// heartbeat racing the sweep is never clobbered, and re-running the sweep
// immediately is a no-op.
func (s *LivenessService) SweepStale(grace time.Duration) (int64, error) {
	if grace <= 0 {
		grace = s.grace
	}
	cutoff := s.now().Add(-grace)
	n, err := s.devices.MarkStaleOffline(cutoff)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "mark offline", err)
	}
	if n > 0 {
		s.logger.Info().Int64("devices", n).Msg("stale devices marked offline")
	}
	return n, nil
}

// Online reports presence for one device: redis first, DB status as fallback.
func (s *LivenessService) Online(ctx context.Context, deviceID string) (bool, error) {
	if s.rdb != nil {
		if err := s.rdb.Get(ctx, presenceKeyPrefix+deviceID).Err(); err == nil {
			return true, nil
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("presence cache read failed")
		}
	}
	d, err := s.devices.FindByID(deviceID)
	if err != nil {
		return false, apperr.New(apperr.NotFound, "device not found")
	}
	return d.Status == models.DeviceStatusOnline, nil
}

// OnlineDevices lists device ids currently marked online.
func (s *LivenessService) OnlineDevices() ([]string, error) {
	devices, err := s.devices.ListByStatus(models.DeviceStatusOnline)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list online devices", err)
	}
	ids := make([]string, 0, len(devices))
	for _, d := range devices {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
