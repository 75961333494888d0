package daemon

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/config"
	"github.com/studiokasse/studiokasse/internal/db/models"
)

// seed fills an empty dev database with a few rows to click around with.
// Production never seeds, the studio starts with an empty book.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64
	db.Model(&models.Freelancer{}).Count(&count)
	if count != 0 {
		return
	}

	log.Info().Msg("dev mode: seeding empty database")

	now := time.Now().UTC()
	today := models.NewDate(now.Year(), now.Month(), now.Day())

	anna := models.Freelancer{Name: "Anna Beispiel", Farbe: "#7c3aed"}
	mia := models.Freelancer{Name: "Mia Muster", Farbe: "#0ea5e9"}
	db.Create(&anna)
	db.Create(&mia)

	db.Create(&models.Kaution{
		FreelancerID: &anna.ID,
		Datum:        today,
		Bezeichnung:  "Schlüsselpfand",
		Betrag:       decimal.New(50, 0),
		Typ:          models.KautionTypKaution,
	})

	db.Create(&models.Buchung{
		Datum:        today,
		Typ:          models.BuchungTypEinnahme,
		Betrag:       decimal.New(125, -1),
		Beschreibung: "Getränkeverkauf",
		Quelle:       models.BuchungQuelleManuell,
	})
}
