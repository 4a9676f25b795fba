package diagnosis

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/patientdx/patientdx/internal/domain/patient"
	"github.com/patientdx/patientdx/internal/platform/llm"
	"github.com/patientdx/patientdx/internal/platform/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/diagnosis/patients/:id/run", h.RunDiagnosis)
	api.GET("/diagnosis/result", h.GetResult)
}

func (h *Handler) RunDiagnosis(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	st := session.FromContext(c)
	res, err := h.svc.Run(c.Request().Context(), st, id)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, res)
	case errors.Is(err, patient.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, ErrRunInFlight):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, llm.ErrNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, notConfiguredMessage)
	default:
		// Transport failure: the session result already carries the message.
		return echo.NewHTTPError(http.StatusBadGateway, "failed to get diagnosis from API")
	}
}

func (h *Handler) GetResult(c echo.Context) error {
	st := session.FromContext(c)
	return c.JSON(http.StatusOK, h.svc.Result(st))
}
