// Package freelancer provides the JSON endpoints for managing freelancers.
package freelancer

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/config"
	controller "github.com/studiokasse/studiokasse/internal/db/controller/freelancer"
	"github.com/studiokasse/studiokasse/internal/web/handler"
)

const (
	// Path is the base path for freelancer management.
	Path = handler.APIRootPath + "freelancer"
)

// Request is the JSON body for creating or updating a freelancer.
type Request struct {
	Name       string `json:"name"       validate:"required,max=255"`
	Adresse    string `json:"adresse"    validate:"max=1024"`
	Farbe      string `json:"farbe"      validate:"max=32"`
	Archiviert bool   `json:"archiviert"`
}

// Service provides CRUD operations for freelancers.
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

// List returns all freelancers ordered by name, archived ones included.
func (s *Service) List(c *fiber.Ctx) error {
	rows, err := controller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load freelancers")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load freelancers",
		})
	}

	return c.JSON(rows)
}

// Create adds a new freelancer. The archive flag of the request is ignored,
// new freelancers always start active.
func (s *Service) Create(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		log.Error().Err(err).Msg("failed to parse freelancer request")

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
		Name:    req.Name,
		Adresse: req.Adresse,
		Farbe:   req.Farbe,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create freelancer")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create freelancer",
		})
	}

	log.Info().Uint64("freelancer_id", row.ID).Str("name", row.Name).Msg("freelancer created")

	return c.Status(fiber.StatusCreated).JSON(row)
}

// Update modifies an existing freelancer, the archive flag included.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidID,
		})
	}

	var req Request
	if err = c.BodyParser(&req); err != nil {
		log.Error().Err(err).Msg("failed to parse freelancer request")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidRequestData,
		})
	}

	if err = s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": strings.Join(handler.ValidationMessages(err), "; "),
		})
	}

	row, err := controller.Update(s.db, id, controller.Params{
		Name:       req.Name,
		Adresse:    req.Adresse,
		Farbe:      req.Farbe,
		Archiviert: req.Archiviert,
	})
	if err != nil {
		if errors.Is(err, controller.ErrFreelancerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Freelancer not found",
			})
		}

		log.Error().Err(err).Uint64("freelancer_id", id).Msg("failed to update freelancer")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to update freelancer",
		})
	}

	return c.JSON(row)
}

// Delete removes a freelancer. Deposits keep their rows, the freelancer
// reference is nullable and simply points nowhere afterwards.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidID,
		})
	}

	if err = controller.Delete(s.db, id); err != nil {
		if errors.Is(err, controller.ErrFreelancerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Freelancer not found",
			})
		}

		log.Error().Err(err).Uint64("freelancer_id", id).Msg("failed to delete freelancer")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to delete freelancer",
		})
	}

	log.Info().Uint64("freelancer_id", id).Msg("freelancer deleted")

	return c.JSON(fiber.Map{
		"message": "Freelancer deleted",
	})
}
