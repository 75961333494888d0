// Package web wires the fiber application: middlewares, the JSON handlers
// and the lifecycle of the http server.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/config"
	adapter "github.com/studiokasse/studiokasse/internal/logger/adapter/fiber"
	"github.com/studiokasse/studiokasse/internal/web/handler"
	"github.com/studiokasse/studiokasse/internal/web/handler/buchung"
	"github.com/studiokasse/studiokasse/internal/web/handler/einstellung"
	"github.com/studiokasse/studiokasse/internal/web/handler/freelancer"
	"github.com/studiokasse/studiokasse/internal/web/handler/kaution"
	"github.com/studiokasse/studiokasse/internal/web/handler/report"
	"github.com/studiokasse/studiokasse/internal/web/handler/termin"
)

// CheckAlivePath is the liveness probe endpoint.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	// Wait for an interrupt
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	// collapse duplicate slashes so /api//freelancer still routes
	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	if !cfg.Webserver.DisableRecover {
		app.Use(fiberrecover.New())
	}

	// access log with request ids
	app.Use(adapter.New(adapter.Config{
		Config:            cfg.Log,
		CacheControlError: "max-age=0",
		CheckAliveURI:     CheckAlivePath,
	}))

	// init web service
	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	// init handlers (they register their own routes)
	for _, h := range []handler.Service{
		&freelancer.Handler,
		&kaution.Handler,
		&termin.Handler,
		&buchung.Handler,
		&einstellung.Handler,
		&report.Handler,
	} {
		if err := h.Init(app, cfg, db); err != nil {
			log.Fatal().Err(err).Msg("failed to init handler")
		}
	}

	// liveness probe, drained during graceful shutdown
	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}

		return c.SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return service
}

// cleanPath reroutes requests whose path contains duplicate or trailing
// slashes to the cleaned path.
func cleanPath(c *fiber.Ctx) error {
	cleaned := path.Clean(c.Path())
	if cleaned != c.Path() {
		c.Path(cleaned)

		return c.RestartRouting()
	}

	return c.Next()
}
