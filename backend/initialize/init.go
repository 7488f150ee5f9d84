package initialize

import (
	"fmt"
	"net/http"

	"guardian-control/backend/app/controllers"
	"guardian-control/backend/app/db"
	jwtutil "guardian-control/backend/app/jwt"
	"guardian-control/backend/app/middleware"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/repo"
	"guardian-control/backend/app/services"
	"guardian-control/backend/config"
	"guardian-control/backend/global"
	"guardian-control/backend/router"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Cfg      config.Config
	DB       *gorm.DB
	Router   http.Handler
	Devices  *services.DeviceService
	Tokens   *services.TokenService
	Jobs     *services.JobService
	Liveness *services.LivenessService
	Policies *services.PolicyService
	Signer   *jwtutil.Signer
}

func Build(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	global.Config = cfg

	gdb, err := db.Connect(db.Config{
		Driver: cfg.DB.Driver, Host: cfg.DB.Host, Port: cfg.DB.Port,
		User: cfg.DB.User, Password: cfg.DB.Pass, DBName: cfg.DB.Name, Path: cfg.DB.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	global.Mdb = gdb

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		global.Rdb = rdb
	}

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	signer := &jwtutil.Signer{
		Secret:       []byte(cfg.JWT.Secret),
		Issuer:       cfg.JWT.Issuer,
		MaxDeviceTTL: cfg.MaxDeviceTTL(),
	}

	return BuildWith(cfg, gdb, rdb, signer), nil
}

// BuildWith wires repositories, services, controllers and the router over an
// already-open store. Tests call it directly with an in-memory database.
func BuildWith(cfg config.Config, gdb *gorm.DB, rdb *redis.Client, signer *jwtutil.Signer) *App {
	deviceRepo := repo.NewDeviceRepository(gdb)
	bootstrapRepo := repo.NewBootstrapSecretRepository(gdb)
	jobRepo := repo.NewJobRepository(gdb)
	jobLogRepo := repo.NewJobLogRepository(gdb)
	hbRepo := repo.NewHeartbeatRepository(gdb)
	policyRepo := repo.NewPolicyRepository(gdb)

	deviceSvc := services.NewDeviceService(deviceRepo, jobRepo)
	tokenSvc := services.NewTokenService(signer, deviceRepo, bootstrapRepo, deviceSvc, cfg.StandingTTL())
	jobSvc := services.NewJobService(jobRepo, jobLogRepo, deviceRepo, global.Logger)
	livenessSvc := services.NewLivenessService(hbRepo, deviceRepo, rdb, cfg.Grace(), global.Logger)
	policySvc := services.NewPolicyService(policyRepo, rdb, 0, global.Logger)

	deviceCtrl := controllers.NewDeviceController(deviceSvc, tokenSvc)
	tokenCtrl := controllers.NewTokenController(tokenSvc, deviceSvc)
	jobCtrl := controllers.NewJobController(jobSvc, deviceSvc)
	hbCtrl := controllers.NewHeartbeatController(livenessSvc, deviceSvc)
	policyCtrl := controllers.NewPolicyController(policySvc)

	mw := &middleware.Auth{Signer: signer, ServiceKey: cfg.ServiceKey}
	h := router.NewRouter(deviceCtrl, tokenCtrl, jobCtrl, hbCtrl, policyCtrl, mw)
	h = middleware.Logging(h)

	return &App{
		Cfg: cfg, DB: gdb, Router: h,
		Devices: deviceSvc, Tokens: tokenSvc, Jobs: jobSvc,
		Liveness: livenessSvc, Policies: policySvc, Signer: signer,
	}
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Device{},
		&models.BootstrapSecret{},
		&models.Job{},
		&models.JobLog{},
		&models.HeartbeatRecord{},
		&models.NetworkPolicyProfile{},
		&models.ChildPolicyOverride{},
		&models.PolicyClient{},
	)
}
