// Package einstellung provides the JSON endpoints for client settings, a
// plain key/value store the frontend uses for its own preferences.
package einstellung

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/config"
	controller "github.com/studiokasse/studiokasse/internal/db/controller/setting"
	"github.com/studiokasse/studiokasse/internal/web/handler"
)

const (
	// Path is the base path for client settings.
	Path = handler.APIRootPath + "einstellungen"
)

// Request is the JSON body for storing a setting.
type Request struct {
	Value string `json:"value"`
}

// Response is the JSON body for a setting lookup. Value is nil when the key
// has never been stored; the lookup still answers 200 so the frontend can
// treat missing and empty alike.
type Response struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// Service provides read and upsert operations for client settings.
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
	app.Get(Path+"/:key", s.Get)
	app.Put(Path+"/:key", s.Set)

	return nil
}

// Get looks up one setting. An unknown key is not an error, the response
// carries a null value instead.
func (s *Service) Get(c *fiber.Ctx) error {
	key := c.Params("key")

	setting, err := controller.Get(s.db, key)
	if err != nil {
		if errors.Is(err, controller.ErrSettingNotFound) {
			return c.JSON(Response{Key: key})
		}

		log.Error().Err(err).Str("key", key).Msg("failed to load setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to load setting",
		})
	}

	return c.JSON(Response{Key: setting.Key, Value: &setting.Value})
}

// Set stores a setting, creating or overwriting as needed.
func (s *Service) Set(c *fiber.Ctx) error {
	key := c.Params("key")

	var req Request
	if err := c.BodyParser(&req); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to parse setting request")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": handler.ErrMsgInvalidRequestData,
		})
	}

	setting, err := controller.Set(s.db, key, req.Value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to store setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to store setting",
		})
	}

	log.Info().Str("key", setting.Key).Msg("setting stored")

	return c.JSON(Response{Key: setting.Key, Value: &setting.Value})
}
