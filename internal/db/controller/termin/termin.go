// Package termin provides operations for appointments. Booking an
// appointment settles the referenced deposits, creates voucher and PayPal
// payout rows and mirrors every payout into the cash ledger; deleting one
// reverses all of it. Both run in a single transaction.
package termin

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/db/controller/kaution"
	"github.com/studiokasse/studiokasse/internal/db/models"
)

// StudioAnteilSatz is the studio's fixed cut of an appointment's gross
// amount. The share is computed and stored at booking time, so changing the
// rate only affects future appointments.
var StudioAnteilSatz = decimal.New(30, -2)

// PlaceholderName annotates payouts whose freelancer no longer exists.
const PlaceholderName = "Unbekannt"

var (
	// ErrTerminNotFound is returned when an appointment is not found.
	ErrTerminNotFound = errors.New("termin not found")
	// ErrKautionAlreadySettled is returned when a booking references a
	// deposit that another booking has already paid out.
	ErrKautionAlreadySettled = errors.New("kaution already paid out")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// PositionParams carries one voucher or PayPal payout position.
type PositionParams struct {
	Bezeichnung string
	Betrag      decimal.Decimal
}

// Params carries everything needed to book an appointment.
type Params struct {
	FreelancerID uint64
	Datum        models.Date
	Gesamtbetrag decimal.Decimal
	KautionIDs   []uint64
	Gutscheine   []PositionParams
	PayPal       []PositionParams
}

// Result is the outcome of a booking: the created appointment plus the ids
// of referenced deposits that did not exist and were skipped.
type Result struct {
	Termin            models.Termin
	SkippedKautionIDs []uint64
}

// Row is an appointment joined with its freelancer's name and the deposit
// rows its settlement consumed or created.
type Row struct {
	models.Termin
	FreelancerName string           `json:"freelancer_name"`
	Kautionen      []models.Kaution `gorm:"-" json:"kautionen"`
}

// Get retrieves an appointment by its ID.
func Get(db *gorm.DB, id uint64) (*models.Termin, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var termin models.Termin
	result := db.First(&termin, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTerminNotFound
		}
		return nil, result.Error
	}

	return &termin, nil
}

// GetAll retrieves all appointments with freelancer names and their
// settlement rows, newest first.
func GetAll(db *gorm.DB) ([]Row, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	rows := []Row{}
	result := db.Table("termine").
		Select("termine.*, freelancers.name AS freelancer_name").
		Joins("LEFT JOIN freelancers ON freelancers.id = termine.freelancer_id").
		Order("termine.datum DESC, termine.id DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	terminIDs := make([]uint64, 0, len(rows))
	for i := range rows {
		rows[i].Kautionen = []models.Kaution{}
		terminIDs = append(terminIDs, rows[i].ID)
	}

	settled, err := kaution.GetByTerminIDs(db, terminIDs)
	if err != nil {
		return nil, err
	}

	byTermin := make(map[uint64][]models.Kaution, len(rows))
	for _, k := range settled {
		if k.TerminID == nil {
			continue
		}
		byTermin[*k.TerminID] = append(byTermin[*k.TerminID], k)
	}

	for i := range rows {
		if list, ok := byTermin[rows[i].ID]; ok {
			rows[i].Kautionen = list
		}
	}

	return rows, nil
}

// GetByFreelancer retrieves all appointments of one freelancer, newest first.
func GetByFreelancer(db *gorm.DB, freelancerID uint64) ([]models.Termin, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	termine := []models.Termin{}
	result := db.Where("freelancer_id = ?", freelancerID).
		Order("datum DESC, id DESC").
		Find(&termine)
	if result.Error != nil {
		return nil, result.Error
	}

	return termine, nil
}

// Create books an appointment and runs the settlement in one transaction:
// the studio share is computed and stored, every referenced open deposit is
// flipped to paid out, voucher and PayPal rows are inserted already paid
// out, and each payout gets an expense row in the ledger.
//
// Referenced deposit ids that do not exist are skipped and reported in the
// result. A deposit that exists but is already paid out aborts the whole
// booking, so concurrent bookings cannot pay out the same deposit twice.
func Create(db *gorm.DB, params Params) (*Result, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	// Resolve the freelancer name for the ledger annotations. A deleted
	// freelancer degrades to a placeholder, it never blocks the booking.
	name := PlaceholderName
	var f models.Freelancer
	err := db.First(&f, params.FreelancerID).Error
	switch {
	case err == nil:
		name = f.Name
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	booking := &Result{
		Termin: models.Termin{
			FreelancerID: params.FreelancerID,
			Datum:        params.Datum,
			Gesamtbetrag: params.Gesamtbetrag,
			StudioAnteil: params.Gesamtbetrag.Mul(StudioAnteilSatz).Round(2),
		},
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking.Termin).Error; err != nil {
			return err
		}

		for _, id := range params.KautionIDs {
			settled, err := settleKaution(tx, id, booking.Termin.ID)
			if err != nil {
				return err
			}
			if !settled {
				booking.SkippedKautionIDs = append(booking.SkippedKautionIDs, id)
				continue
			}

			var k models.Kaution
			if err := tx.First(&k, id).Error; err != nil {
				return err
			}

			if err := createAusgabe(tx, params.Datum, booking.Termin.ID, k.Betrag,
				payoutText("Kaution", name, k.Bezeichnung)); err != nil {
				return err
			}
		}

		for _, pos := range params.Gutscheine {
			if err := createPayout(tx, &booking.Termin, params, models.KautionTypGutschein, name, pos); err != nil {
				return err
			}
		}

		for _, pos := range params.PayPal {
			if err := createPayout(tx, &booking.Termin, params, models.KautionTypPayPal, name, pos); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// Delete reverses a booking in one transaction: plain deposits return to the
// open pool, the synthetic voucher/PayPal rows and the derived ledger rows
// disappear, then the appointment row itself is removed. An unknown id rolls
// everything back and reports not found.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// Plain deposits go back to the open pool first
		if err := tx.Model(&models.Kaution{}).
			Where("termin_id = ? AND typ = ?", id, models.KautionTypKaution).
			Updates(map[string]any{"ausgezahlt": false, "termin_id": nil}).Error; err != nil {
			return err
		}

		// Voucher and PayPal rows only exist as part of the booking
		if err := tx.Where("termin_id = ? AND typ IN ?", id,
			[]models.KautionTyp{models.KautionTypGutschein, models.KautionTypPayPal}).
			Delete(&models.Kaution{}).Error; err != nil {
			return err
		}

		// Derived ledger entries; manual rows never carry a termin_id
		if err := tx.Where("termin_id = ?", id).Delete(&models.Buchung{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Termin{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTerminNotFound
		}

		return nil
	})
}

// settleKaution flips one open deposit to paid out. The ausgezahlt check
// lives in the WHERE clause, so two concurrent bookings can never both
// consume the same row. Returns false when the id does not exist at all.
func settleKaution(tx *gorm.DB, id, terminID uint64) (bool, error) {
	result := tx.Model(&models.Kaution{}).
		Where("id = ? AND ausgezahlt = ?", id, false).
		Updates(map[string]any{"ausgezahlt": true, "termin_id": terminID})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// No row changed: either the id is unknown (tolerated, the caller skips
	// it) or the deposit lost the race and is already paid out.
	var count int64
	if err := tx.Model(&models.Kaution{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}

	return false, fmt.Errorf("kaution %d: %w", id, ErrKautionAlreadySettled)
}

// createPayout inserts one voucher or PayPal row, already paid out and
// linked to the booking, plus its expense entry in the ledger.
func createPayout(tx *gorm.DB, t *models.Termin, params Params, typ models.KautionTyp, name string, pos PositionParams) error {
	k := models.Kaution{
		FreelancerID: &params.FreelancerID,
		Datum:        params.Datum,
		Bezeichnung:  pos.Bezeichnung,
		Betrag:       pos.Betrag,
		Typ:          typ,
		Ausgezahlt:   true,
		TerminID:     &t.ID,
	}
	if err := tx.Create(&k).Error; err != nil {
		return err
	}

	kind := "Gutschein"
	if typ == models.KautionTypPayPal {
		kind = "PayPal"
	}

	return createAusgabe(tx, params.Datum, t.ID, pos.Betrag, payoutText(kind, name, pos.Bezeichnung))
}

// createAusgabe inserts one settlement-derived expense row into the ledger.
func createAusgabe(tx *gorm.DB, datum models.Date, terminID uint64, betrag decimal.Decimal, text string) error {
	buchung := models.Buchung{
		Datum:        datum,
		Typ:          models.BuchungTypAusgabe,
		Betrag:       betrag,
		Beschreibung: text,
		Quelle:       models.BuchungQuelleTermin,
		TerminID:     &terminID,
	}

	return tx.Create(&buchung).Error
}

// payoutText builds the ledger annotation, e.g. "Kaution Anna - Schlüsselpfand".
func payoutText(kind, freelancerName, bezeichnung string) string {
	return fmt.Sprintf("%s %s - %s", kind, freelancerName, bezeichnung)
}
