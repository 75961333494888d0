package models

import "github.com/shopspring/decimal"

// Termin represents a booked appointment of a freelancer. The studio share
// is computed once at creation and stored, so historical rows keep the rate
// they were settled with even if the rate ever changes.
type Termin struct {
	// ID is the unique identifier for the appointment.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// FreelancerID is the freelancer the appointment belongs to.
	FreelancerID uint64 `gorm:"column:freelancer_id;index;not null" json:"freelancer_id"`
	// Datum is the day of the appointment.
	Datum Date `gorm:"type:date" json:"datum"`
	// Gesamtbetrag is the gross amount the customer paid.
	Gesamtbetrag decimal.Decimal `gorm:"type:decimal(10,2)" json:"gesamtbetrag"`
	// StudioAnteil is the studio's cut of the gross amount.
	StudioAnteil decimal.Decimal `gorm:"column:studio_anteil;type:decimal(10,2)" json:"studio_anteil"`
}

// TableName specifies the database table name for the Termin model.
func (Termin) TableName() string {
	return "termine"
}
