// Package buchung provides the JSON endpoints for the cash ledger.
package buchung

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
	controller "github.com/studiokasse/studiokasse/internal/db/controller/buchung"
	"github.com/studiokasse/studiokasse/internal/db/models"
	"github.com/studiokasse/studiokasse/internal/web/handler"
)

const (
	// Path is the base path for ledger management.
	Path = handler.APIRootPath + "buchungen"
)

// Request is the JSON body for creating or updating a manual ledger entry.
// The direction whitelist lives in the controller, so the error reads the
// same no matter where the value came from.
type Request struct {
	Datum        models.Date       `json:"datum"        validate:"required"`
	Typ          models.BuchungTyp `json:"typ"          validate:"required"`
	Betrag       decimal.Decimal   `json:"betrag"`
	Beschreibung string            `json:"beschreibung" validate:"max=255"`
}

// Service provides management of ledger entries.
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
	app.Post(Path, s.Create)
	app.Put(Path+"/:id", s.Update)
	app.Delete(Path+"/:id", s.Delete)

	return nil
}

// List returns the whole ledger, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	rows, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load buchungen")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load buchungen",
		})
	}

	return c.JSON(rows)
}

// Create adds a manual ledger entry.
func (s *Service) Create(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		log.Error().Err(err).Msg("failed to parse buchung request")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidRequestData,
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": strings.Join(handler.ValidationMessages(err), "; "),
		})
	}

	entry, err := controller.Create(s.db, controller.Params{
		Datum:        req.Datum,
		Typ:          req.Typ,
		Betrag:       req.Betrag,
		Beschreibung: req.Beschreibung,
	})
	if err != nil {
		if errors.Is(err, controller.ErrBuchungTypInvalid) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}

		log.Error().Err(err).Msg("failed to create buchung")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create buchung",
		})
	}

	log.Info().Uint64("buchung_id", entry.ID).Str("typ", string(entry.Typ)).Msg("buchung created")

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Update changes a manual ledger entry. Settlement-derived entries are
// refused, they only change through their appointment.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidID,
		})
	}

	var req Request
	if err = c.BodyParser(&req); err != nil {
		log.Error().Err(err).Msg("failed to parse buchung request")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidRequestData,
		})
	}

	if err = s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": strings.Join(handler.ValidationMessages(err), "; "),
		})
	}

	entry, err := controller.Update(s.db, id, controller.Params{
		Datum:        req.Datum,
		Typ:          req.Typ,
		Betrag:       req.Betrag,
		Beschreibung: req.Beschreibung,
	})
	if err != nil {
		switch {
		case errors.Is(err, controller.ErrBuchungNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Buchung not found",
			})
		case errors.Is(err, controller.ErrBuchungNotManual), errors.Is(err, controller.ErrBuchungTypInvalid):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}

		log.Error().Err(err).Uint64("buchung_id", id).Msg("failed to update buchung")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update buchung",
		})
	}

	log.Info().Uint64("buchung_id", entry.ID).Msg("buchung updated")

	return c.JSON(entry)
}

// Delete removes a manual ledger entry. Settlement-derived entries are
// refused, they disappear with the reversal of their appointment.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidID,
		})
	}

	if err = controller.Delete(s.db, id); err != nil {
		switch {
		case errors.Is(err, controller.ErrBuchungNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Buchung not found",
			})
		case errors.Is(err, controller.ErrBuchungNotManual):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}

		log.Error().Err(err).Uint64("buchung_id", id).Msg("failed to delete buchung")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete buchung",
		})
	}

	log.Info().Uint64("buchung_id", id).Msg("buchung deleted")

	return c.JSON(fiber.Map{
		"message": "Buchung deleted",
	})
}
