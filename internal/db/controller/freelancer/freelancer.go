// Package freelancer provides CRUD operations for freelancers.
package freelancer

import (
	"errors"

	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/db/models"
)

var (
	// ErrFreelancerNotFound is returned when a freelancer is not found.
	ErrFreelancerNotFound = errors.New("freelancer not found")
	// ErrFreelancerNameEmpty is returned when attempting to create or update a freelancer without a name.
	ErrFreelancerNameEmpty = errors.New("freelancer name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Params carries the writable fields of a freelancer.
type Params struct {
	Name       string
	Adresse    string
	Farbe      string
	Archiviert bool
}

// Get retrieves a freelancer by its ID.
func Get(db *gorm.DB, id uint64) (*models.Freelancer, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var freelancer models.Freelancer
	result := db.First(&freelancer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrFreelancerNotFound
		}
		return nil, result.Error
	}

	return &freelancer, nil
}

// GetAll retrieves all freelancers ordered by name, archived ones included.
func GetAll(db *gorm.DB) ([]models.Freelancer, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	freelancers := []models.Freelancer{}
	result := db.Order("name").Find(&freelancers)
	if result.Error != nil {
		return nil, result.Error
	}

	return freelancers, nil
}

// Create creates a new freelancer. New freelancers always start active.
func Create(db *gorm.DB, params Params) (*models.Freelancer, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if params.Name == "" {
		return nil, ErrFreelancerNameEmpty
	}

	freelancer := &models.Freelancer{
		Name:    params.Name,
		Adresse: params.Adresse,
		Farbe:   params.Farbe,
	}

	result := db.Create(freelancer)
	if result.Error != nil {
		return nil, result.Error
	}

	return freelancer, nil
}

// Update replaces the writable fields of an existing freelancer, the
// archive flag included.
func Update(db *gorm.DB, id uint64, params Params) (*models.Freelancer, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if params.Name == "" {
		return nil, ErrFreelancerNameEmpty
	}

	var freelancer models.Freelancer
	result := db.First(&freelancer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrFreelancerNotFound
		}
		return nil, result.Error
	}

	freelancer.Name = params.Name
	freelancer.Adresse = params.Adresse
	freelancer.Farbe = params.Farbe
	freelancer.Archiviert = params.Archiviert

	result = db.Save(&freelancer)
	if result.Error != nil {
		return nil, result.Error
	}

	return &freelancer, nil
}

// Delete deletes a freelancer by ID. Deposits and appointments are left
// untouched; their freelancer reference simply points at nothing anymore.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Freelancer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFreelancerNotFound
	}

	return nil
}
