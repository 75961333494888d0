package models

import "github.com/shopspring/decimal"

// BuchungTyp is the direction of a ledger entry.
type BuchungTyp string

const (
	// BuchungTypEinnahme is money coming in.
	BuchungTypEinnahme BuchungTyp = "einnahme"
	// BuchungTypAusgabe is money going out.
	BuchungTypAusgabe BuchungTyp = "ausgabe"
)

// BuchungQuelle tags who owns a ledger entry.
type BuchungQuelle string

const (
	// BuchungQuelleManuell marks entries created through the ledger API.
	BuchungQuelleManuell BuchungQuelle = "manuell"
	// BuchungQuelleTermin marks entries derived from a settlement. They are
	// owned by the appointment workflows; the ledger API refuses to update
	// or delete them.
	BuchungQuelleTermin BuchungQuelle = "termin"
)

// Buchung represents one row of the studio cash ledger.
type Buchung struct {
	// ID is the unique identifier for the ledger entry.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Datum is the booking day.
	Datum Date `gorm:"type:date" json:"datum"`
	// Typ is the direction (einnahme or ausgabe).
	Typ BuchungTyp `gorm:"type:varchar(20);not null" json:"typ"`
	// Betrag is the booked amount, always positive; Typ carries the sign.
	Betrag decimal.Decimal `gorm:"type:decimal(10,2)" json:"betrag"`
	// Beschreibung is the booking text shown in the ledger.
	Beschreibung string `gorm:"size:255" json:"beschreibung"`
	// Quelle tags the entry as manual or settlement-derived.
	Quelle BuchungQuelle `gorm:"type:varchar(20);not null;default:'manuell'" json:"quelle"`
	// TerminID links derived entries to their appointment. Nil for manual
	// entries.
	TerminID *uint64 `gorm:"column:termin_id;index" json:"termin_id"`
}

// TableName specifies the database table name for the Buchung model.
func (Buchung) TableName() string {
	return "buchungen"
}
