package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "EquiScreen/internal/domain/repository"
	"EquiScreen/internal/service/scheduler"
	pkgcache "EquiScreen/pkg/cache"
	pkgch "EquiScreen/pkg/clickhouse"
	"EquiScreen/pkg/config"
	xhttp "EquiScreen/pkg/http"
	applogger "EquiScreen/pkg/logger"
	pkgqueue "EquiScreen/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	handler    xhttp.Handler
	chClient   *pkgch.Client
	cache      *pkgcache.RedisCache
	pub        domrepo.RunPublisher
	queue      *pkgqueue.RedisQueue
	sched      *scheduler.Scheduler
	l          *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	cache *pkgcache.RedisCache,
	pub domrepo.RunPublisher,
	queue *pkgqueue.RedisQueue,
	sched *scheduler.Scheduler,
	l *applogger.Logger,
) *App {
	return &App{
		cfg:      cfg,
		handler:  handler,
		chClient: chClient,
		cache:    cache,
		pub:      pub,
		queue:    queue,
		sched:    sched,
		l:        l,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	serverOpts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled {
		serverOpts = append(serverOpts, xhttp.WithMetrics(a.l, 2*time.Second))
	}
	a.httpServer = xhttp.NewServer(a.handler, serverOpts...)

	// Start scheduled-refresh workers before the trigger so a tick never
	// lands on a queue with no consumers.
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.l.Error("queue start error", applogger.Error(err))
			return err
		}
	}
	if a.sched != nil {
		if err := a.sched.Start(); err != nil {
			a.l.Error("scheduler start error", applogger.Error(err))
			return err
		}
		a.l.Info("scheduler started",
			applogger.String("cron", a.cfg.Scheduler.Cron),
			applogger.Strings("universe", a.cfg.Scheduler.Universe))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop producing work first, then the workers draining it.
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.l.Warn("queue stop error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Warn("redis close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
