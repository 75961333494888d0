// Package report builds the monthly per-freelancer aggregation: appointment
// count, gross revenue and studio share for one calendar month, plus the
// current count and sum of open deposits.
package report

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/db/models"
)

// MonatFormat is the wire format of a report month.
const MonatFormat = "2006-01"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Row is one freelancer's slice of the monthly report. Every non-archived
// freelancer gets a row, with zero values when the month was empty.
type Row struct {
	FreelancerID          uint64          `json:"freelancer_id"`
	Name                  string          `json:"name"`
	Farbe                 string          `json:"farbe"`
	TerminAnzahl          int             `json:"termin_anzahl"`
	Umsatz                decimal.Decimal `json:"umsatz"`
	StudioAnteil          decimal.Decimal `json:"studio_anteil"`
	OffeneKautionenAnzahl int             `json:"offene_kautionen_anzahl"`
	OffeneKautionenSumme  decimal.Decimal `json:"offene_kautionen_summe"`
}

// ParseMonat parses the "YYYY-MM" wire form of a report month.
func ParseMonat(value string) (int, time.Month, error) {
	t, err := time.Parse(MonatFormat, value)
	if err != nil {
		return 0, 0, err
	}

	return t.Year(), t.Month(), nil
}

// MonthWindow returns the half-open [from, to) range of a calendar month.
// AddDate normalizes the rollover, so December wraps into January and
// 28/29/30/31-day months all come out right.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	return from, from.AddDate(0, 1, 0)
}

// ForMonth builds the report for one calendar month. The appointment
// numbers are scoped to the month; the open-deposit numbers are the state
// of right now, deliberately unscoped. Archived freelancers are left out
// entirely, their appointments too.
func ForMonth(db *gorm.DB, year int, month time.Month) ([]Row, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var freelancers []models.Freelancer
	if err := db.Where("archiviert = ?", false).Order("name").Find(&freelancers).Error; err != nil {
		return nil, err
	}

	von, bis := MonthWindow(year, month)

	var termine []models.Termin
	if err := db.Where("datum >= ? AND datum < ?", von, bis).Find(&termine).Error; err != nil {
		return nil, err
	}

	var offene []models.Kaution
	if err := db.Where("typ = ? AND ausgezahlt = ?", models.KautionTypKaution, false).Find(&offene).Error; err != nil {
		return nil, err
	}

	rows := make([]Row, len(freelancers))
	index := make(map[uint64]*Row, len(freelancers))
	for i, f := range freelancers {
		rows[i] = Row{
			FreelancerID:         f.ID,
			Name:                 f.Name,
			Farbe:                f.Farbe,
			Umsatz:               decimal.Zero,
			StudioAnteil:         decimal.Zero,
			OffeneKautionenSumme: decimal.Zero,
		}
		index[f.ID] = &rows[i]
	}

	// Sums run through decimal arithmetic here instead of SQL SUM: SQLite
	// has no decimal type and SUM would coerce the column to float.
	for _, t := range termine {
		row, ok := index[t.FreelancerID]
		if !ok {
			continue // archived or deleted freelancer
		}

		row.TerminAnzahl++
		row.Umsatz = row.Umsatz.Add(t.Gesamtbetrag)
		row.StudioAnteil = row.StudioAnteil.Add(t.StudioAnteil)
	}

	for _, k := range offene {
		if k.FreelancerID == nil {
			continue
		}

		row, ok := index[*k.FreelancerID]
		if !ok {
			continue
		}

		row.OffeneKautionenAnzahl++
		row.OffeneKautionenSumme = row.OffeneKautionenSumme.Add(k.Betrag)
	}

	return rows, nil
}
