package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type HTTP struct {
	Host string
	Port int
}

type DB struct {
	Driver string
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
	Path   string
}

type Redis struct {
	Addr string
	DB   int
}

type JWT struct {
	Secret          string
	Issuer          string
	MaxDeviceTTLSec int
	StandingTTLDays int
}

type Liveness struct {
	GraceSec int
}

type Config struct {
	HTTP       HTTP
	DB         DB
	Redis      Redis
	JWT        JWT
	Liveness   Liveness
	ServiceKey string
}

func (c Config) MaxDeviceTTL() time.Duration {
	return time.Duration(c.JWT.MaxDeviceTTLSec) * time.Second
}

func (c Config) StandingTTL() time.Duration {
	return time.Duration(c.JWT.StandingTTLDays) * 24 * time.Hour
}

func (c Config) Grace() time.Duration {
	return time.Duration(c.Liveness.GraceSec) * time.Second
}

func Load(path string) (Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := fromViper(v)
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret"
	}
	return cfg, nil
}

// Watch re-reads the file on change and hands the fresh config to onChange.
// Only values read per-request (the sweep grace, for instance) pick it up;
// the signing secret stays fixed for the process lifetime.
func Watch(path string, onChange func(Config)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	v.OnConfigChange(func(fsnotify.Event) {
		onChange(fromViper(v))
	})
	v.WatchConfig()
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("control.http.host", "127.0.0.1")
	v.SetDefault("control.http.port", 9400)
	v.SetDefault("control.db.driver", "mysql")
	v.SetDefault("control.db.host", "127.0.0.1")
	v.SetDefault("control.db.port", 3306)
	v.SetDefault("control.db.user", "root")
	v.SetDefault("control.db.pass", "")
	v.SetDefault("control.db.name", "guardian_control")
	v.SetDefault("control.db.path", "guardian.db")
	v.SetDefault("control.redis.addr", "")
	v.SetDefault("control.redis.db", 0)
	v.SetDefault("control.jwt.issuer", "guardian-control")
	v.SetDefault("control.jwt.max_device_ttl_sec", 3600)
	v.SetDefault("control.jwt.standing_ttl_days", 30)
	v.SetDefault("control.liveness.grace_sec", 120)
	return v
}

func fromViper(v *viper.Viper) Config {
	return Config{
		HTTP: HTTP{
			Host: v.GetString("control.http.host"),
			Port: v.GetInt("control.http.port"),
		},
		DB: DB{
			Driver: v.GetString("control.db.driver"),
			Host:   v.GetString("control.db.host"),
			Port:   v.GetInt("control.db.port"),
			User:   v.GetString("control.db.user"),
			Pass:   v.GetString("control.db.pass"),
			Name:   v.GetString("control.db.name"),
			Path:   v.GetString("control.db.path"),
		},
		Redis: Redis{
			Addr: v.GetString("control.redis.addr"),
			DB:   v.GetInt("control.redis.db"),
		},
		JWT: JWT{
			Secret:          v.GetString("control.jwt.secret"),
			Issuer:          v.GetString("control.jwt.issuer"),
			MaxDeviceTTLSec: v.GetInt("control.jwt.max_device_ttl_sec"),
			StandingTTLDays: v.GetInt("control.jwt.standing_ttl_days"),
		},
		Liveness: Liveness{
			GraceSec: v.GetInt("control.liveness.grace_sec"),
		},
		ServiceKey: v.GetString("control.service_key"),
	}
}
