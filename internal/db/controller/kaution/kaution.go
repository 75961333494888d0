// Package kaution provides CRUD operations for deposits. Settling and
// reversing deposits is owned by the termin package; this package only
// manages the open pool.
package kaution

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/db/models"
)

var (
	// ErrKautionNotFound is returned when a deposit is not found.
	ErrKautionNotFound = errors.New("kaution not found")
	// ErrKautionBezeichnungEmpty is returned when attempting to create a deposit without a label.
	ErrKautionBezeichnungEmpty = errors.New("kaution label cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Params carries the writable fields of a plain deposit.
type Params struct {
	FreelancerID *uint64
	Datum        models.Date
	Bezeichnung  string
	Betrag       decimal.Decimal
}

// Row is a deposit joined with its freelancer's name for list views.
type Row struct {
	models.Kaution
	FreelancerName string `json:"freelancer_name"`
}

// GetAll retrieves all deposits with their freelancer names, newest first.
// Deposits of deleted freelancers come back with an empty name.
func GetAll(db *gorm.DB) ([]Row, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	rows := []Row{}
	result := db.Table("kautionen").
		Select("kautionen.*, freelancers.name AS freelancer_name").
		Joins("LEFT JOIN freelancers ON freelancers.id = kautionen.freelancer_id").
		Order("kautionen.datum DESC, kautionen.id DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// GetByFreelancer retrieves all deposits of one freelancer, newest first.
func GetByFreelancer(db *gorm.DB, freelancerID uint64) ([]models.Kaution, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	kautionen := []models.Kaution{}
	result := db.Where("freelancer_id = ?", freelancerID).
		Order("datum DESC, id DESC").
		Find(&kautionen)
	if result.Error != nil {
		return nil, result.Error
	}

	return kautionen, nil
}

// GetByTerminIDs retrieves the deposits settled by any of the given
// appointments, for attaching settlement lists to appointment views.
func GetByTerminIDs(db *gorm.DB, terminIDs []uint64) ([]models.Kaution, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if len(terminIDs) == 0 {
		return []models.Kaution{}, nil
	}

	var kautionen []models.Kaution
	result := db.Where("termin_id IN ?", terminIDs).
		Order("id").
		Find(&kautionen)
	if result.Error != nil {
		return nil, result.Error
	}

	return kautionen, nil
}

// Create creates a new plain deposit. Rows always start unsettled; voucher
// and PayPal rows are never created here.
func Create(db *gorm.DB, params Params) (*models.Kaution, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if params.Bezeichnung == "" {
		return nil, ErrKautionBezeichnungEmpty
	}

	kaution := &models.Kaution{
		FreelancerID: params.FreelancerID,
		Datum:        params.Datum,
		Bezeichnung:  params.Bezeichnung,
		Betrag:       params.Betrag,
		Typ:          models.KautionTypKaution,
		Ausgezahlt:   false,
	}

	result := db.Create(kaution)
	if result.Error != nil {
		return nil, result.Error
	}

	return kaution, nil
}

// Delete deletes a deposit by ID, settled or not.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Kaution{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrKautionNotFound
	}

	return nil
}
