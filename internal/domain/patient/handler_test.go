package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *Store, *echo.Echo) {
	store := NewStore()
	h := NewHandler(func(echo.Context) *Store { return store })
	e := echo.New()
	return h, store, e
}

func TestHandler_CreatePatient(t *testing.T) {
	h, store, e := newTestHandler()

	body := `{"age":40,"gender":"Male","height_cm":180,"weight_kg":80,"blood_pressure":"120/80","symptoms":"Cough","medication_history":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreatePatient(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var r Record
	json.Unmarshal(rec.Body.Bytes(), &r)
	if r.ID != 1 {
		t.Errorf("expected id 1, got %d", r.ID)
	}
	if r.BMI != 24.69 {
		t.Errorf("expected derived BMI 24.69, got %v", r.BMI)
	}
	if r.MedicationHistory != "None" {
		t.Errorf("expected \"None\", got %q", r.MedicationHistory)
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 stored record, got %d", store.Count())
	}
}

func TestHandler_CreatePatient_InvalidHeight(t *testing.T) {
	h, _, e := newTestHandler()

	body := `{"age":40,"gender":"Male","height_cm":0,"weight_kg":80}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreatePatient(c)
	if err == nil {
		t.Fatal("expected error for non-positive height")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetPatient_NotFound(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.GetPatient(c)
	if err == nil {
		t.Fatal("expected error for not found")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetPatient_BadID(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-number")

	err := h.GetPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer id, got %v", err)
	}
}

func TestHandler_UpdatePatient(t *testing.T) {
	h, store, e := newTestHandler()
	store.Create(validFields())

	body := `{"age":41,"gender":"Male","height_cm":180,"weight_kg":90,"blood_pressure":"130/85","symptoms":"Cough","medication_history":"Ibuprofen"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.UpdatePatient(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var r Record
	json.Unmarshal(rec.Body.Bytes(), &r)
	if r.Age != 41 || r.BMI != 27.78 {
		t.Errorf("expected updated record with recomputed BMI, got %+v", r)
	}
}

func TestHandler_UpdatePatient_AbsentID(t *testing.T) {
	h, _, e := newTestHandler()

	body := `{"age":41,"gender":"Male","height_cm":180,"weight_kg":90}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.UpdatePatient(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for silent no-op update, got %d", rec.Code)
	}
}

func TestHandler_DeletePatient_Idempotent(t *testing.T) {
	h, store, e := newTestHandler()
	store.Create(validFields())

	for _, id := range []string{"1", "1", "42"} {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)

		if err := h.DeletePatient(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	}
	if store.Count() != 0 {
		t.Errorf("expected empty store, got %d", store.Count())
	}
}

func TestHandler_CopyPatient(t *testing.T) {
	h, store, e := newTestHandler()
	store.Create(validFields())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.CopyPatient(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var r Record
	json.Unmarshal(rec.Body.Bytes(), &r)
	if r.ID != 2 {
		t.Errorf("expected copy under fresh id 2, got %d", r.ID)
	}
}

func TestHandler_ListPatients(t *testing.T) {
	h, store, e := newTestHandler()
	for i := 0; i < 3; i++ {
		store.Create(validFields())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListPatients(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []Record `json:"data"`
		Total int      `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 3 || len(resp.Data) != 3 {
		t.Errorf("expected 3 records, got total=%d len=%d", resp.Total, len(resp.Data))
	}
}

func TestHandler_GetPatientVitals(t *testing.T) {
	h, store, e := newTestHandler()
	store.Create(Fields{Age: 50, Gender: "Female", HeightCm: 160, WeightKg: 70, BloodPressure: "140/90"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.GetPatientVitals(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v Vitals
	json.Unmarshal(rec.Body.Bytes(), &v)
	if v.Systolic != 140 || v.Diastolic != 90 {
		t.Errorf("expected 140/90, got %d/%d", v.Systolic, v.Diastolic)
	}
	if v.SystolicPct != 70 || v.DiastolicPct != 75 {
		t.Errorf("expected percentages (70, 75), got (%v, %v)", v.SystolicPct, v.DiastolicPct)
	}
	if v.BMI != 27.34 {
		t.Errorf("expected BMI 27.34, got %v", v.BMI)
	}
	if v.BMICategory != "overweight" {
		t.Errorf("expected overweight, got %s", v.BMICategory)
	}
}
