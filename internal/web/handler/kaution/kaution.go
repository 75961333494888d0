// Package kaution provides the JSON endpoints for managing deposits.
package kaution

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/config"
	controller "github.com/studiokasse/studiokasse/internal/db/controller/kaution"
	"github.com/studiokasse/studiokasse/internal/db/models"
	"github.com/studiokasse/studiokasse/internal/web/handler"
)

const (
	// Path is the base path for deposit management.
	Path = handler.APIRootPath + "kautionen"
)

// Request is the JSON body for creating a deposit.
type Request struct {
	FreelancerID *uint64         `json:"freelancer_id" validate:"required"`
	Datum        models.Date     `json:"datum"         validate:"required"`
	Bezeichnung  string          `json:"bezeichnung"   validate:"required,max=255"`
	Betrag       decimal.Decimal `json:"betrag"`
}

// Service provides CRUD operations for deposits.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
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
	s.validator = validator.New()

	// Routes
	app.Get(Path, s.List)
	app.Get(Path+"/freelancer/:id", s.ListByFreelancer)
	app.Post(Path, s.Create)
	app.Delete(Path+"/:id", s.Delete)

	return nil
}

// List returns all deposits together with the name of their freelancer,
// newest first.
func (s *Service) List(c *fiber.Ctx) error {
	rows, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load kautionen")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load kautionen",
		})
	}

	return c.JSON(rows)
}

// ListByFreelancer returns the deposits of a single freelancer.
func (s *Service) ListByFreelancer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidID,
		})
	}

	rows, err := controller.GetByFreelancer(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint64("freelancer_id", id).Msg("failed to load kautionen")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load kautionen",
		})
	}

	return c.JSON(rows)
}

// Create adds a new plain deposit. A fresh deposit always starts open,
// type and settle flag are fixed at creation.
func (s *Service) Create(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		log.Error().Err(err).Msg("failed to parse kaution request")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidRequestData,
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": strings.Join(handler.ValidationMessages(err), "; "),
		})
	}

	row, err := controller.Create(s.db, controller.Params{
		FreelancerID: req.FreelancerID,
		Datum:        req.Datum,
		Bezeichnung:  req.Bezeichnung,
		Betrag:       req.Betrag,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create kaution")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create kaution",
		})
	}

	log.Info().Uint64("kaution_id", row.ID).Str("bezeichnung", row.Bezeichnung).Msg("kaution created")

	return c.Status(fiber.StatusCreated).JSON(row)
}

// Delete removes a deposit regardless of its settle state.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidID,
		})
	}

	if err = controller.Delete(s.db, id); err != nil {
		if errors.Is(err, controller.ErrKautionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Kaution not found",
			})
		}

		log.Error().Err(err).Uint64("kaution_id", id).Msg("failed to delete kaution")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete kaution",
		})
	}

	log.Info().Uint64("kaution_id", id).Msg("kaution deleted")

	return c.JSON(fiber.Map{
		"message": "Kaution deleted",
	})
}
