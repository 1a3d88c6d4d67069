package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CollegeROI/pkg/config"
	xhttp "CollegeROI/pkg/http"
	applogger "CollegeROI/pkg/logger"
)

const janitorInterval = time.Minute

// ReadinessChecker reports whether the model resources are loaded.
type ReadinessChecker interface {
	Ready() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	ready      ReadinessChecker
	janitors   []func()
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, ready ReadinessChecker) *App {
	return &App{cfg: cfg, l: l, httpServer: srv, ready: ready}
}

// AddJanitor registers periodic housekeeping run while the app is up.
func (a *App) AddJanitor(fn func()) {
	a.janitors = append(a.janitors, fn)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is done, then shuts down.
func (a *App) RunContext(ctx context.Context) error {
	if a.ready != nil {
		if err := a.ready.Ready(); err != nil {
			// keep serving /health; every ROI request answers 503
			a.l.Error("starting without model resources", applogger.Error(err))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	if len(a.janitors) > 0 {
		go a.housekeeping(ctx)
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, fn := range a.janitors {
				fn()
			}
		}
	}
}

// shutdown gracefully stops the HTTP server. Infrastructure clients are
// closed by the DI cleanup after Run returns.
func (a *App) shutdown() error {
	a.l.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.l.Info("shutdown complete")
	return nil
}
