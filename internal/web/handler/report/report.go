// Package report provides the monthly report endpoint.
package report

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/config"
	controller "github.com/studiokasse/studiokasse/internal/db/controller/report"
	"github.com/studiokasse/studiokasse/internal/web/handler"
)

const (
	// Path is the base path for the monthly report.
	Path = handler.APIRootPath + "report"
)

// Service provides the monthly per-freelancer report.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg) //nolint:goerr113
	}

	s.db = db
	s.cfg = cfg

	// Routes
	app.Get(Path+"/:monat", s.ForMonth)

	return nil
}

// ForMonth builds the report for one calendar month, addressed as YYYY-MM.
func (s *Service) ForMonth(c *fiber.Ctx) error {
	monat := c.Params("monat")

	year, month, err := controller.ParseMonat(monat)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Monat must be formatted as YYYY-MM",
		})
	}

	rows, err := controller.ForMonth(s.db, year, month)
	if err != nil {
		log.Error().Err(err).Str("monat", monat).Msg("failed to build report")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to build report",
		})
	}

	return c.JSON(rows)
}
