package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/clever-tips/internal/api"
	"github.com/yourusername/clever-tips/internal/metrics"
	"github.com/yourusername/clever-tips/internal/scheduler"
)

const (
	shutdownGrace = 30 * time.Second
	purgeSchedule = "@daily"
)

// keyPurger is implemented by key stores whose expired keys need explicit cleanup
type keyPurger interface {
	Purge(ctx context.Context) (int64, error)
}

func newServeCmd() *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, HTTP API and gRPC health service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, runNow)
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", false, "Run predictions once at startup")
	return cmd
}

func serve(ctx context.Context, runNow bool) error {
	metrics.InitRegistry()

	a, err := newApp(ctx, cfg, appLog, appOptions{withStream: true})
	if err != nil {
		return err
	}
	defer a.Close()

	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	go a.hub.Run(hubCtx)

	var grpcServer *api.GRPCServer
	if cfg.Server.GRPCPort > 0 {
		grpcServer = api.NewGRPCServer(appLog)
		if err := grpcServer.Start(cfg.Server.GRPCPort); err != nil {
			return err
		}
		defer grpcServer.Stop()
	}

	apiCfg := api.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Server.HTTPPort,
		MetricsPath: cfg.Server.MetricsPath,
		Location:    cfg.Location(),
		Logger:      appLog,
		Predictor:   a.service,
		Predictions: a.repo,
		Stream:      a.hub,
		Health:      grpcServer,
	}
	if a.db != nil {
		apiCfg.DB = a.db
	}
	server := api.NewServer(apiCfg)
	if err := server.Start(); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(a.service, cfg.Location(), appLog)
	if cfg.Schedule.Enabled {
		if err := sched.ScheduleDailyRun(cfg.Schedule.Cron, cfg.Schedule.LookAheadDays, cfg.RunTimeout()); err != nil {
			return err
		}
	}
	if p, ok := a.keys.(keyPurger); ok {
		err := sched.ScheduleTask(purgeSchedule, "purge_published_keys", time.Minute, func(ctx context.Context) error {
			n, err := p.Purge(ctx)
			if err == nil {
				appLog.WithField("removed", n).Info("Purged expired published keys")
			}
			return err
		})
		if err != nil {
			return err
		}
	}
	if len(sched.Entries()) > 0 {
		if err := sched.Start(); err != nil {
			return err
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler running")
	}

	if runNow {
		go func() {
			runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout())
			defer cancel()
			_, _ = sched.RunOnce(runCtx, cfg.Schedule.LookAheadDays)
		}()
	}

	appLog.WithFields(logrus.Fields{
		"http_port": cfg.Server.HTTPPort,
		"grpc_port": cfg.Server.GRPCPort,
		"schedule":  cfg.Schedule.Enabled,
		"version":   Version,
	}).Info("Tipster serving")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		appLog.WithError(err).Warn("Scheduler did not stop cleanly")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Warn("API server did not stop cleanly")
	}
	cancelHub()

	appLog.Info("Tipster stopped")
	return nil
}
