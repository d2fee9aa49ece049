package main

import (
	"context"
	"flag"
	"log/slog"
	"path/filepath"
	"time"

	devenv "jetcargo-backend/dev/env"
	"jetcargo-backend/lib/chrono"
	"jetcargo-backend/lib/configutil"
	"jetcargo-backend/lib/ghl"
	"jetcargo-backend/lib/restyutil"
	"jetcargo-backend/lib/serviceutil"
	"jetcargo-backend/lib/telemetry"
	"jetcargo-backend/services/relay"
	"jetcargo-backend/services/relay/db"
)

func initTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)
	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "relay")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		err := telemetry.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}()
	telemetry.InstrumentPerfStats(ctx, 30*time.Second)
}

func main() {
	configPath := flag.String("config", "config.json5", "The path to the config file.")
	verbose := flag.Bool("v", false, "Enable verbose logging.")
	flag.Parse()

	ctx := serviceutil.SignalContext()
	initTelemetry(ctx, *verbose)

	slog.Info("loading config...", "path", *configPath)
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	cfg.Database.File, err = devenv.ResolvePath(cfg.Database.File)
	if err != nil {
		serviceutil.Fatal("resolve database path", err)
	}
	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("open database", err)
	}
	defer database.Close()

	ghlOptions := cfg.Ghl.options()
	if *verbose {
		output, err := restyutil.NewFilesystemOutput(filepath.Join(devenv.StatePrefix, "resty", "ghl"))
		if err != nil {
			serviceutil.Fatal("create resty output", err)
		}
		slog.Debug("recording crm exchanges", "dir", output.Directory())
		ghlOptions.Transcript = output
	}
	crm := ghl.NewClient(ghlOptions)
	if !crm.Configured() {
		slog.Warn("crm api key or location id missing, submissions will fail")
	}

	tel := telemetry.SlogAPI{}
	service, err := relay.NewService(database, crm, cfg.Notify.notifier(), tel, cfg.serviceOptions())
	if err != nil {
		serviceutil.Fatal("init relay", err)
	}

	cron := chrono.NewStandardCron(tel)
	defer cron.Stop()
	err = service.StartDaemons(cron)
	if err != nil {
		serviceutil.Fatal("start daemons", err)
	}

	serviceutil.StartHttpServer(ctx, cfg.port(), service.Handler())
}
