package calendrier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serveGET(t *testing.T, h func(echo.Context) error, target string, params ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return rec, h(c)
}

func TestHandlerPeriode(t *testing.T) {
	f := newFixture()
	f.addEtude(1, "E-1", day(2024, 6, 1), day(2024, 6, 30))
	f.addRdv(1, 1, nil, day(2024, 6, 10), hptr(9, 0))
	h := NewHandler(f.svc)

	rec, err := serveGET(t, h.Periode, "/calendrier/periode?debut=2024-06-01&fin=2024-06-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var data PeriodeData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(data.Rdvs) != 1 || data.Stats.Total != 1 {
		t.Errorf("unexpected payload: %d rdvs", len(data.Rdvs))
	}
}

func TestHandlerPeriodeMissingParams(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	_, err := serveGET(t, h.Periode, "/calendrier/periode?debut=2024-06-01")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandlerPeriodeInvertedRange(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	_, err := serveGET(t, h.Periode, "/calendrier/periode?debut=2024-06-30&fin=2024-06-01")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandlerEtudeRdvsNotFound(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	_, err := serveGET(t, h.EtudeRdvs, "/calendrier/etudes/42/rdvs", "id", "42")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandlerEtudeRdvsBadID(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	_, err := serveGET(t, h.EtudeRdvs, "/calendrier/etudes/abc/rdvs", "id", "abc")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandlerCreneauxLibresDefaults(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	rec, err := serveGET(t, h.CreneauxLibres, "/calendrier/creneaux-libres?debut=2024-06-10&fin=2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var data CreneauxLibres
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	// Default working window is 08:00 to 18:00.
	if data.PlageDebut.Hour != 8 || data.PlageFin.Hour != 18 {
		t.Errorf("unexpected default window: %v..%v", data.PlageDebut, data.PlageFin)
	}
}

func TestHandlerCreneauxLibresInvalidHeure(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	_, err := serveGET(t, h.CreneauxLibres,
		"/calendrier/creneaux-libres?debut=2024-06-10&fin=2024-06-10&de=25:00")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandlerConflits(t *testing.T) {
	f := newFixture()
	f.addEtude(1, "E-1", day(2024, 6, 1), day(2024, 6, 30))
	f.addRdv(1, 1, intp(1), day(2024, 6, 10), hptr(9, 0))
	f.addRdv(1, 2, intp(2), day(2024, 6, 10), hptr(9, 0))
	h := NewHandler(f.svc)

	rec, err := serveGET(t, h.Conflits, "/calendrier/conflits?debut=2024-06-01&fin=2024-06-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var data ConflitsData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if data.Total != 1 || len(data.Chevauchements) != 1 {
		t.Errorf("unexpected conflicts payload: %+v", data)
	}
}
