// Package termin provides the JSON endpoints for booking and reversing
// appointments. Booking runs the deposit settlement, deleting runs the
// full reversal.
package termin

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
	controller "github.com/studiokasse/studiokasse/internal/db/controller/termin"
	"github.com/studiokasse/studiokasse/internal/db/models"
	"github.com/studiokasse/studiokasse/internal/web/handler"
)

const (
	// Path is the base path for appointment management.
	Path = handler.APIRootPath + "termine"
)

// PositionRequest is one voucher or PayPal position of a booking.
type PositionRequest struct {
	Bezeichnung string          `json:"bezeichnung" validate:"required,max=255"`
	Betrag      decimal.Decimal `json:"betrag"`
}

// Request is the JSON body for booking an appointment.
type Request struct {
	FreelancerID uint64            `json:"freelancer_id" validate:"required"`
	Datum        models.Date       `json:"datum"         validate:"required"`
	Gesamtbetrag decimal.Decimal   `json:"gesamtbetrag"`
	KautionIDs   []uint64          `json:"kaution_ids"`
	Gutscheine   []PositionRequest `json:"gutscheine"    validate:"dive"`
	PayPal       []PositionRequest `json:"paypal"        validate:"dive"`
}

// Response is the JSON body returned for a successful booking.
type Response struct {
	models.Termin
	SkippedKautionIDs []uint64 `json:"skipped_kaution_ids,omitempty"`
}

// Service provides booking and reversal operations for appointments.
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

// List returns all appointments, newest first, each with the name of its
// freelancer and the deposits settled by it.
func (s *Service) List(c *fiber.Ctx) error {
	rows, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load termine")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load termine",
		})
	}

	return c.JSON(rows)
}

// ListByFreelancer returns the appointments of a single freelancer.
func (s *Service) ListByFreelancer(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidID,
		})
	}

	rows, err := controller.GetByFreelancer(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint64("freelancer_id", id).Msg("failed to load termine")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load termine",
		})
	}

	return c.JSON(rows)
}

// Create books an appointment and settles the referenced deposits. A deposit
// that is already paid out turns the whole booking into a conflict, unknown
// deposit ids are skipped and reported back.
func (s *Service) Create(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		log.Error().Err(err).Msg("failed to parse termin request")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidRequestData,
		})
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": strings.Join(handler.ValidationMessages(err), "; "),
		})
	}

	result, err := controller.Create(s.db, controller.Params{
		FreelancerID: req.FreelancerID,
		Datum:        req.Datum,
		Gesamtbetrag: req.Gesamtbetrag,
		KautionIDs:   req.KautionIDs,
		Gutscheine:   positionParams(req.Gutscheine),
		PayPal:       positionParams(req.PayPal),
	})
	if err != nil {
		if errors.Is(err, controller.ErrKautionAlreadySettled) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": err.Error(),
			})
		}

		log.Error().Err(err).Uint64("freelancer_id", req.FreelancerID).Msg("failed to create termin")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create termin",
		})
	}

	if len(result.SkippedKautionIDs) > 0 {
		log.Warn().
			Uints64("skipped_kaution_ids", result.SkippedKautionIDs).
			Uint64("termin_id", result.Termin.ID).
			Msg("booking referenced unknown kautionen")
	}

	log.Info().
		Uint64("termin_id", result.Termin.ID).
		Uint64("freelancer_id", result.Termin.FreelancerID).
		Str("gesamtbetrag", result.Termin.Gesamtbetrag.String()).
		Str("studio_anteil", result.Termin.StudioAnteil.String()).
		Msg("termin created")

	return c.Status(fiber.StatusCreated).JSON(Response{
		Termin:            result.Termin,
		SkippedKautionIDs: result.SkippedKautionIDs,
	})
}

// Delete reverses a booking: settled plain deposits reopen, voucher and
// PayPal rows and the derived ledger entries disappear with the appointment.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidID,
		})
	}

	if err = controller.Delete(s.db, id); err != nil {
		if errors.Is(err, controller.ErrTerminNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Termin not found",
			})
		}

		log.Error().Err(err).Uint64("termin_id", id).Msg("failed to delete termin")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete termin",
		})
	}

	log.Info().Uint64("termin_id", id).Msg("termin deleted and settlement reversed")

	return c.JSON(fiber.Map{
		"message": "Termin deleted",
	})
}

func positionParams(positions []PositionRequest) []controller.PositionParams {
	if len(positions) == 0 {
		return nil
	}

	params := make([]controller.PositionParams, len(positions))
	for i, pos := range positions {
		params[i] = controller.PositionParams{
			Bezeichnung: pos.Bezeichnung,
			Betrag:      pos.Betrag,
		}
	}

	return params
}
