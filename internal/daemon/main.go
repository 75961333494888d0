// Package daemon opens the store, migrates the schema and assembles the
// web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/config"
	"github.com/studiokasse/studiokasse/internal/db/dsn"
	"github.com/studiokasse/studiokasse/internal/db/models"
	gormadapter "github.com/studiokasse/studiokasse/internal/logger/adapter/gorm"
	"github.com/studiokasse/studiokasse/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start runs the web service until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.DB.GormEngine).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Freelancer{},
		&models.Kaution{},
		&models.Termin{},
		&models.Buchung{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Amounts leave the API as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.DevMode {
		seed(cfg, db)
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db),
	}
}

// openDB opens the configured engine with gorm, query logging routed
// through zerolog.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormadapter.New()}

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gorm.Open(gormmysql.Open(dsn.MySQL(cfg)), gormCfg)
	case config.EnginePostgres:
		return gorm.Open(gormpostgres.Open(dsn.Postgres(cfg)), gormCfg)
	default:
		return gorm.Open(sqlite.Open(cfg.DB.Path), gormCfg)
	}
}
