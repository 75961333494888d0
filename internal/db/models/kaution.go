package models

import "github.com/shopspring/decimal"

// KautionTyp distinguishes real customer deposits from the synthetic payout
// rows the settlement workflow creates alongside an appointment.
type KautionTyp string

const (
	// KautionTypKaution is a plain deposit paid in by a customer. It sits in
	// the open pool until an appointment settles it.
	KautionTypKaution KautionTyp = "kaution"
	// KautionTypGutschein is a voucher payout row. It only exists as a side
	// effect of a settlement and is created already paid out.
	KautionTypGutschein KautionTyp = "gutschein"
	// KautionTypPayPal is a PayPal credit payout row, created like a voucher.
	KautionTypPayPal KautionTyp = "paypal"
)

// Kaution represents a deposit held for a freelancer. Plain deposits are
// created unsettled through the API; settling an appointment flips them to
// paid out and links them to the appointment that consumed them.
type Kaution struct {
	// ID is the unique identifier for the deposit.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// FreelancerID links the deposit to its freelancer. Nullable so deposit
	// history survives freelancer deletion.
	FreelancerID *uint64 `gorm:"column:freelancer_id;index" json:"freelancer_id"`
	// Datum is the day the deposit was taken.
	Datum Date `gorm:"type:date" json:"datum"`
	// Bezeichnung is the free-form label ("Schlüsselpfand", customer name, ...).
	Bezeichnung string `gorm:"size:255" json:"bezeichnung"`
	// Betrag is the deposit amount.
	Betrag decimal.Decimal `gorm:"type:decimal(10,2)" json:"betrag"`
	// Typ tells plain deposits and synthetic payout rows apart.
	Typ KautionTyp `gorm:"type:varchar(20);not null;default:'kaution'" json:"typ"`
	// Ausgezahlt marks the deposit as paid out. Guarded by the settlement
	// workflow; a deposit is settled at most once.
	Ausgezahlt bool `gorm:"default:false" json:"ausgezahlt"`
	// TerminID references the appointment that settled (or created) this
	// row. Nil while the deposit is open.
	TerminID *uint64 `gorm:"column:termin_id;index" json:"termin_id"`
}

// TableName specifies the database table name for the Kaution model.
func (Kaution) TableName() string {
	return "kautionen"
}
