package services

import (
	"testing"
	"time"

	"guardian-control/backend/app/db"
	jwtutil "guardian-control/backend/app/jwt"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/repo"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type testEnv struct {
	gdb      *gorm.DB
	devices  *repo.DeviceRepository
	jobs     *repo.JobRepository
	signer   *jwtutil.Signer
	registry *DeviceService
	tokens   *TokenService
	jobSvc   *JobService
	liveness *LivenessService
	policies *PolicyService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.ConnectTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.Device{}, &models.BootstrapSecret{}, &models.Job{}, &models.JobLog{},
		&models.HeartbeatRecord{}, &models.NetworkPolicyProfile{},
		&models.ChildPolicyOverride{}, &models.PolicyClient{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	deviceRepo := repo.NewDeviceRepository(gdb)
	jobRepo := repo.NewJobRepository(gdb)
	signer := &jwtutil.Signer{Secret: []byte("test-secret"), Issuer: "test", MaxDeviceTTL: time.Hour}
	registry := NewDeviceService(deviceRepo, jobRepo)
	logger := zerolog.Nop()

	return &testEnv{
		gdb:      gdb,
		devices:  deviceRepo,
		jobs:     jobRepo,
		signer:   signer,
		registry: registry,
		tokens: NewTokenService(signer, deviceRepo,
			repo.NewBootstrapSecretRepository(gdb), registry, 30*24*time.Hour),
		jobSvc:   NewJobService(jobRepo, repo.NewJobLogRepository(gdb), deviceRepo, logger),
		liveness: NewLivenessService(repo.NewHeartbeatRepository(gdb), deviceRepo, nil, 120*time.Second, logger),
		policies: NewPolicyService(repo.NewPolicyRepository(gdb), nil, 0, logger),
	}
}

func (e *testEnv) registerActive(t *testing.T, ownerID string) *models.Device {
	t.Helper()
	d, err := e.registry.Register("")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	d, err = e.registry.Activate(d.DeviceCode, ownerID, "Parent")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	return d
}
