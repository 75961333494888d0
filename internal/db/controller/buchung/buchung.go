// Package buchung provides CRUD operations for the cash ledger. Only
// manually created entries may be changed or removed here; rows derived
// from a settlement belong to the termin package and are refused.
package buchung

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/db/models"
)

var (
	// ErrBuchungNotFound is returned when a ledger entry is not found.
	ErrBuchungNotFound = errors.New("buchung not found")
	// ErrBuchungNotManual is returned when attempting to change or delete a
	// settlement-derived ledger entry.
	ErrBuchungNotManual = errors.New("buchung was not created manually")
	// ErrBuchungTypInvalid is returned when the entry direction is neither
	// einnahme nor ausgabe.
	ErrBuchungTypInvalid = errors.New("buchung typ must be einnahme or ausgabe")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Params carries the writable fields of a manual ledger entry.
type Params struct {
	Datum        models.Date
	Typ          models.BuchungTyp
	Betrag       decimal.Decimal
	Beschreibung string
}

// GetAll retrieves the whole ledger, newest first.
func GetAll(db *gorm.DB) ([]models.Buchung, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	buchungen := []models.Buchung{}
	result := db.Order("datum DESC, id DESC").Find(&buchungen)
	if result.Error != nil {
		return nil, result.Error
	}

	return buchungen, nil
}

// Create creates a new manual ledger entry.
func Create(db *gorm.DB, params Params) (*models.Buchung, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if err := validateTyp(params.Typ); err != nil {
		return nil, err
	}

	entry := &models.Buchung{
		Datum:        params.Datum,
		Typ:          params.Typ,
		Betrag:       params.Betrag,
		Beschreibung: params.Beschreibung,
		Quelle:       models.BuchungQuelleManuell,
	}

	result := db.Create(entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return entry, nil
}

// Update replaces the writable fields of a manual ledger entry. Derived
// entries are refused; they change only through their appointment.
func Update(db *gorm.DB, id uint64, params Params) (*models.Buchung, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if err := validateTyp(params.Typ); err != nil {
		return nil, err
	}

	var entry models.Buchung
	result := db.First(&entry, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBuchungNotFound
		}
		return nil, result.Error
	}

	if entry.Quelle != models.BuchungQuelleManuell {
		return nil, ErrBuchungNotManual
	}

	entry.Datum = params.Datum
	entry.Typ = params.Typ
	entry.Betrag = params.Betrag
	entry.Beschreibung = params.Beschreibung

	result = db.Save(&entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

// Delete deletes a manual ledger entry. Derived entries are refused; they
// disappear with the reversal of their appointment.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	var entry models.Buchung
	result := db.First(&entry, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrBuchungNotFound
		}
		return result.Error
	}

	if entry.Quelle != models.BuchungQuelleManuell {
		return ErrBuchungNotManual
	}

	result = db.Delete(&models.Buchung{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBuchungNotFound
	}

	return nil
}

func validateTyp(typ models.BuchungTyp) error {
	if typ != models.BuchungTypEinnahme && typ != models.BuchungTypAusgabe {
		return ErrBuchungTypInvalid
	}

	return nil
}
