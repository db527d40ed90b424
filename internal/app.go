package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"votekiosk/internal/controllers"
	kioskinterfaces "votekiosk/internal/kiosk/interfaces"
	"votekiosk/internal/providers"
	"votekiosk/internal/services"
	"votekiosk/internal/structures"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
	service   services.KioskServiceInterface
	watchdog  kioskinterfaces.WatchdogInterface
	logger    providers.Logger
	conf      *structures.Config
}

func NewApp(healthController *controllers.HealthController, service services.KioskServiceInterface, watchdog kioskinterfaces.WatchdogInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: kiosk API routes
	routes := router.GetRoutes()
	apiMux := http.NewServeMux()
	for _, route := range routes {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, routes, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: conf.Backend.Timeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service:  service,
		watchdog: watchdog,
		logger:   logger,
		conf:     conf,
	}
}

// Run serves the kiosk until SIGINT/SIGTERM or a server failure. On the way
// out the voter flow is torn down and exclusive display released; a verified
// but unfinished session stays on disk for the next start.
func (a *App) Run() error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)

	ctx, cancel := context.WithTimeout(context.Background(), a.conf.Backend.Timeout)
	a.service.Restore(ctx)
	cancel()

	a.watchdog.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", a.conf.WebServer.Host, a.conf.WebServer.Port)
		if err := a.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	a.watchdog.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.WebServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}

	a.service.Close()
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return runErr
}
