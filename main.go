package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guardian-control/backend/config"
	"guardian-control/backend/global"
	"guardian-control/backend/initialize"
	"guardian-control/backend/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config")
	flag.Parse()

	app, err := initialize.Build(*configPath)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("build failed")
	}

	if err := config.Watch(*configPath, func(c config.Config) {
		global.Config = c
		global.Logger.Info().Msg("config reloaded")
	}); err != nil {
		global.Logger.Warn().Err(err).Msg("config watch unavailable")
	}

	srv := server.StartHTTPServer(app.Cfg.HTTP.Host, app.Cfg.HTTP.Port, app.Router)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		global.Logger.Error().Err(err).Msg("shutdown")
	}
}
