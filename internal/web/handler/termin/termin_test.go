package termin

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/studiokasse/studiokasse/internal/config"
	controller "github.com/studiokasse/studiokasse/internal/db/controller/termin"
	"github.com/studiokasse/studiokasse/internal/db/models"
)

func newTestService(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err = db.AutoMigrate(&models.Freelancer{}, &models.Kaution{}, &models.Termin{}, &models.Buchung{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}

	app := fiber.New()

	var s Service
	if err = s.Init(app, &config.Config{}, db); err != nil {
		t.Fatalf("failed to init handler: %v", err)
	}

	return app, db
}

func performJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}

		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func seedFreelancer(t *testing.T, db *gorm.DB, name string) *models.Freelancer {
	t.Helper()

	row := models.Freelancer{Name: name}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed freelancer: %v", err)
	}

	return &row
}

func seedKaution(t *testing.T, db *gorm.DB, freelancerID uint64, bezeichnung string, betrag string) *models.Kaution {
	t.Helper()

	row := models.Kaution{
		FreelancerID: &freelancerID,
		Datum:        models.NewDate(2025, time.November, 10),
		Bezeichnung:  bezeichnung,
		Betrag:       decimal.RequireFromString(betrag),
		Typ:          models.KautionTypKaution,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed kaution: %v", err)
	}

	return &row
}

func bookTermin(t *testing.T, app *fiber.App, req Request) Response {
	t.Helper()

	resp := performJSON(t, app, http.MethodPost, Path, req)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", resp.StatusCode)
	}

	var created Response
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return created
}

func TestCreate(t *testing.T) {
	app, db := newTestService(t)

	anna := seedFreelancer(t, db, "Anna")
	pfand := seedKaution(t, db, anna.ID, "Schlüsselpfand", "50.00")

	resp := performJSON(t, app, http.MethodPost, Path, Request{
		FreelancerID: anna.ID,
		Datum:        models.NewDate(2025, time.November, 15),
		Gesamtbetrag: decimal.RequireFromString("200.00"),
		KautionIDs:   []uint64{pfand.ID},
		Gutscheine:   []PositionRequest{{Bezeichnung: "Weihnachtsgutschein", Betrag: decimal.RequireFromString("25.00")}},
		PayPal:       []PositionRequest{{Bezeichnung: "Onlineanzahlung", Betrag: decimal.RequireFromString("15.50")}},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}

	// Nothing was skipped, so the field must be absent entirely.
	if bytes.Contains(body, []byte("skipped_kaution_ids")) {
		t.Errorf("skipped_kaution_ids should be omitted when empty: %s", body)
	}

	var created Response
	if err = json.Unmarshal(body, &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if created.ID == 0 || created.FreelancerID != anna.ID {
		t.Fatalf("unexpected termin: %+v", created)
	}

	if !created.StudioAnteil.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("expected studio anteil 60.00 for 200.00, got %s", created.StudioAnteil)
	}

	var settled models.Kaution
	if err = db.First(&settled, pfand.ID).Error; err != nil {
		t.Fatalf("failed to reload kaution: %v", err)
	}

	if !settled.Ausgezahlt || settled.TerminID == nil || *settled.TerminID != created.ID {
		t.Errorf("kaution should be paid out and linked to the termin: %+v", settled)
	}

	var synthetic []models.Kaution
	if err = db.Where("termin_id = ? AND typ <> ?", created.ID, models.KautionTypKaution).
		Find(&synthetic).Error; err != nil {
		t.Fatalf("failed to load synthetic rows: %v", err)
	}

	if len(synthetic) != 2 {
		t.Fatalf("expected gutschein and paypal rows, got %d", len(synthetic))
	}

	for _, row := range synthetic {
		if !row.Ausgezahlt {
			t.Errorf("synthetic row must be created already paid out: %+v", row)
		}
	}

	var buchungen []models.Buchung
	if err = db.Where("termin_id = ?", created.ID).Order("id").Find(&buchungen).Error; err != nil {
		t.Fatalf("failed to load buchungen: %v", err)
	}

	if len(buchungen) != 3 {
		t.Fatalf("expected 3 derived ledger rows, got %d", len(buchungen))
	}

	wantTexts := []string{
		"Kaution Anna - Schlüsselpfand",
		"Gutschein Anna - Weihnachtsgutschein",
		"PayPal Anna - Onlineanzahlung",
	}
	for i, row := range buchungen {
		if row.Beschreibung != wantTexts[i] {
			t.Errorf("expected ledger text %q, got %q", wantTexts[i], row.Beschreibung)
		}

		if row.Typ != models.BuchungTypAusgabe || row.Quelle != models.BuchungQuelleTermin {
			t.Errorf("derived ledger row must be an ausgabe owned by the termin: %+v", row)
		}
	}
}

func TestCreateSkipsUnknownKautionen(t *testing.T) {
	app, db := newTestService(t)

	anna := seedFreelancer(t, db, "Anna")

	created := bookTermin(t, app, Request{
		FreelancerID: anna.ID,
		Datum:        models.NewDate(2025, time.November, 15),
		Gesamtbetrag: decimal.RequireFromString("100.00"),
		KautionIDs:   []uint64{4711},
	})

	if len(created.SkippedKautionIDs) != 1 || created.SkippedKautionIDs[0] != 4711 {
		t.Errorf("expected skipped id 4711, got %v", created.SkippedKautionIDs)
	}

	var count int64
	if err := db.Model(&models.Buchung{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}

	if count != 0 {
		t.Errorf("a skipped kaution must not produce ledger rows, got %d", count)
	}
}

func TestCreateConflictOnSettledKaution(t *testing.T) {
	app, db := newTestService(t)

	anna := seedFreelancer(t, db, "Anna")
	pfand := seedKaution(t, db, anna.ID, "Schlüsselpfand", "50.00")

	if err := db.Model(pfand).Update("ausgezahlt", true).Error; err != nil {
		t.Fatalf("failed to settle kaution: %v", err)
	}

	resp := performJSON(t, app, http.MethodPost, Path, Request{
		FreelancerID: anna.ID,
		Datum:        models.NewDate(2025, time.November, 15),
		Gesamtbetrag: decimal.RequireFromString("100.00"),
		KautionIDs:   []uint64{pfand.ID},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !strings.Contains(payload["message"], "already paid out") {
		t.Errorf("unexpected conflict message: %q", payload["message"])
	}

	// The whole booking rolls back, nothing may stick.
	var termine int64
	if err := db.Model(&models.Termin{}).Count(&termine).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}

	if termine != 0 {
		t.Errorf("conflicting booking must roll back the termin, got %d rows", termine)
	}

	var buchungen int64
	if err := db.Model(&models.Buchung{}).Count(&buchungen).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}

	if buchungen != 0 {
		t.Errorf("conflicting booking must roll back ledger rows, got %d", buchungen)
	}
}

func TestCreateUsesPlaceholderForUnknownFreelancer(t *testing.T) {
	app, db := newTestService(t)

	created := bookTermin(t, app, Request{
		FreelancerID: 999,
		Datum:        models.NewDate(2025, time.November, 15),
		Gesamtbetrag: decimal.RequireFromString("80.00"),
		Gutscheine:   []PositionRequest{{Bezeichnung: "Geschenkkarte", Betrag: decimal.RequireFromString("10.00")}},
	})

	var row models.Buchung
	if err := db.Where("termin_id = ?", created.ID).First(&row).Error; err != nil {
		t.Fatalf("failed to load ledger row: %v", err)
	}

	if row.Beschreibung != "Gutschein Unbekannt - Geschenkkarte" {
		t.Errorf("expected placeholder annotation, got %q", row.Beschreibung)
	}
}

func TestCreateValidation(t *testing.T) {
	app, _ := newTestService(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing freelancer", `{"datum":"2025-11-15","gesamtbetrag":100}`},
		{"missing datum", `{"freelancer_id":1,"gesamtbetrag":100}`},
		{"gutschein without bezeichnung", `{"freelancer_id":1,"datum":"2025-11-15","gutscheine":[{"betrag":10}]}`},
		{"garbage datum", `{"freelancer_id":1,"datum":"morgen"}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test failed: %v", err)
			}

			defer func() {
				_ = resp.Body.Close()
			}()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400 Bad Request, got %d", resp.StatusCode)
			}
		})
	}
}

func TestList(t *testing.T) {
	app, db := newTestService(t)

	anna := seedFreelancer(t, db, "Anna")
	pfand := seedKaution(t, db, anna.ID, "Schlüsselpfand", "50.00")

	bookTermin(t, app, Request{
		FreelancerID: anna.ID,
		Datum:        models.NewDate(2025, time.November, 15),
		Gesamtbetrag: decimal.RequireFromString("200.00"),
		KautionIDs:   []uint64{pfand.ID},
	})

	resp := performJSON(t, app, http.MethodGet, Path, nil)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	var rows []controller.Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 termin, got %d", len(rows))
	}

	if rows[0].FreelancerName != "Anna" {
		t.Errorf("expected joined freelancer name Anna, got %q", rows[0].FreelancerName)
	}

	if len(rows[0].Kautionen) != 1 || rows[0].Kautionen[0].ID != pfand.ID {
		t.Errorf("expected the settled kaution attached, got %+v", rows[0].Kautionen)
	}
}

func TestListByFreelancer(t *testing.T) {
	app, db := newTestService(t)

	anna := seedFreelancer(t, db, "Anna")
	mia := seedFreelancer(t, db, "Mia")

	bookTermin(t, app, Request{
		FreelancerID: anna.ID,
		Datum:        models.NewDate(2025, time.November, 15),
		Gesamtbetrag: decimal.RequireFromString("120.00"),
	})
	bookTermin(t, app, Request{
		FreelancerID: mia.ID,
		Datum:        models.NewDate(2025, time.November, 16),
		Gesamtbetrag: decimal.RequireFromString("90.00"),
	})

	resp := performJSON(t, app, http.MethodGet, Path+"/freelancer/"+strconv.FormatUint(anna.ID, 10), nil)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	var rows []models.Termin
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(rows) != 1 || rows[0].FreelancerID != anna.ID {
		t.Errorf("expected only Annas termin, got %+v", rows)
	}
}

func TestDelete(t *testing.T) {
	app, db := newTestService(t)

	anna := seedFreelancer(t, db, "Anna")
	pfand := seedKaution(t, db, anna.ID, "Schlüsselpfand", "50.00")

	created := bookTermin(t, app, Request{
		FreelancerID: anna.ID,
		Datum:        models.NewDate(2025, time.November, 15),
		Gesamtbetrag: decimal.RequireFromString("200.00"),
		KautionIDs:   []uint64{pfand.ID},
		Gutscheine:   []PositionRequest{{Bezeichnung: "Weihnachtsgutschein", Betrag: decimal.RequireFromString("25.00")}},
	})

	manual := models.Buchung{
		Datum:        models.NewDate(2025, time.November, 15),
		Typ:          models.BuchungTypEinnahme,
		Betrag:       decimal.RequireFromString("12.00"),
		Beschreibung: "Getränkeverkauf",
		Quelle:       models.BuchungQuelleManuell,
	}
	if err := db.Create(&manual).Error; err != nil {
		t.Fatalf("failed to seed manual buchung: %v", err)
	}

	resp := performJSON(t, app, http.MethodDelete, Path+"/"+strconv.FormatUint(created.ID, 10), nil)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	var reopened models.Kaution
	if err := db.First(&reopened, pfand.ID).Error; err != nil {
		t.Fatalf("failed to reload kaution: %v", err)
	}

	if reopened.Ausgezahlt || reopened.TerminID != nil {
		t.Errorf("plain kaution should be open again: %+v", reopened)
	}

	var gutscheine int64
	if err := db.Model(&models.Kaution{}).Where("typ = ?", models.KautionTypGutschein).
		Count(&gutscheine).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}

	if gutscheine != 0 {
		t.Errorf("synthetic gutschein rows should be gone, got %d", gutscheine)
	}

	var buchungen []models.Buchung
	if err := db.Find(&buchungen).Error; err != nil {
		t.Fatalf("failed to load buchungen: %v", err)
	}

	if len(buchungen) != 1 || buchungen[0].Quelle != models.BuchungQuelleManuell {
		t.Errorf("only the manual ledger row should survive, got %+v", buchungen)
	}

	var termine int64
	if err := db.Model(&models.Termin{}).Count(&termine).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}

	if termine != 0 {
		t.Errorf("termin should be gone after delete, got %d rows", termine)
	}
}

func TestDeleteNotFound(t *testing.T) {
	app, _ := newTestService(t)

	resp := performJSON(t, app, http.MethodDelete, Path+"/999", nil)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 Not Found, got %d", resp.StatusCode)
	}
}

func TestDeleteInvalidID(t *testing.T) {
	app, _ := newTestService(t)

	resp := performJSON(t, app, http.MethodDelete, Path+"/abc", nil)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 Bad Request, got %d", resp.StatusCode)
	}
}
