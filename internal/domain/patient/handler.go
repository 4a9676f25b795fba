package patient

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/patientdx/patientdx/pkg/pagination"
)

// StoreProvider resolves the record store owned by the current session.
type StoreProvider func(c echo.Context) *Store

type Handler struct {
	stores StoreProvider
}

func NewHandler(stores StoreProvider) *Handler {
	return &Handler{stores: stores}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.GET("/patients/:id/vitals", h.GetPatientVitals)
	api.POST("/patients", h.CreatePatient)
	api.POST("/patients/:id/copy", h.CopyPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)
}

// Vitals is the derived-field display payload for one patient.
type Vitals struct {
	BMI          float64 `json:"bmi"`
	BMICategory  string  `json:"bmi_category"`
	Systolic     int     `json:"systolic"`
	Diastolic    int     `json:"diastolic"`
	SystolicPct  float64 `json:"systolic_pct"`
	DiastolicPct float64 `json:"diastolic_pct"`
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	records := h.stores(c).List()
	total := len(records)

	start := pg.Offset
	if start > total {
		start = total
	}
	end := start + pg.Limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records[start:end], total, pg.Limit, pg.Offset))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, err := h.stores(c).Get(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) GetPatientVitals(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, err := h.stores(c).Get(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}

	sys, dia := ParseBloodPressure(r.BloodPressure)
	sysPct, diaPct := BPPercentages(r.BloodPressure)
	return c.JSON(http.StatusOK, Vitals{
		BMI:          r.BMI,
		BMICategory:  BMICategory(r.BMI),
		Systolic:     sys,
		Diastolic:    dia,
		SystolicPct:  sysPct,
		DiastolicPct: diaPct,
	})
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var f Fields
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.stores(c).Create(f)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, "height_cm must be positive")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) CopyPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, err := h.stores(c).Copy(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var f Fields
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	store := h.stores(c)
	if err := store.Update(id, f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "height_cm must be positive")
	}
	// Update of an absent id is a store-level no-op; the API still reports
	// the current state of the addressed record when it exists.
	r, err := store.Get(id)
	if err != nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	h.stores(c).Delete(id)
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
