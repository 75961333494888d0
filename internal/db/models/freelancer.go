package models

import "time"

// Freelancer represents a renter of studio time (hairdresser, tattoo artist,
// nail designer and so on). Freelancers are never hard-referenced by the
// money tables: deposits keep a nullable link so bookkeeping history survives
// a deletion.
type Freelancer struct {
	// ID is the unique identifier for the freelancer.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name, also used to annotate derived ledger entries.
	Name string `gorm:"size:255;not null" json:"name"`
	// Adresse is the free-form postal address.
	Adresse string `gorm:"size:1024" json:"adresse"`
	// Farbe is the calendar colour assigned to the freelancer (hex string).
	Farbe string `gorm:"size:32" json:"farbe"`
	// Archiviert removes the freelancer from monthly reports while keeping
	// all rows intact.
	Archiviert bool `gorm:"default:false" json:"archiviert"`
	// CreatedAt is the timestamp when the row was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the Freelancer model.
// This overrides GORM's default pluralized table naming.
func (Freelancer) TableName() string {
	return "freelancers"
}
