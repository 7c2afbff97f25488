package calendrier

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/domain/rdv"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "gestionnaire", "recruteur"))
	readGroup.GET("/calendrier/periode", h.Periode)
	readGroup.GET("/calendrier/semaine", h.Semaine)
	readGroup.GET("/calendrier/etudes/:id/rdvs", h.EtudeRdvs)
	readGroup.GET("/calendrier/etudes/:id/rdvs/focus", h.EtudeRdvsFocus)
	readGroup.GET("/calendrier/etudes/:id/rdvs/date", h.EtudeRdvsDate)
	readGroup.GET("/calendrier/volontaires/:id/planning", h.VolontairePlanning)
	readGroup.GET("/calendrier/statistiques", h.Statistiques)
	readGroup.GET("/calendrier/creneaux-libres", h.CreneauxLibres)
	readGroup.GET("/calendrier/conflits", h.Conflits)
	readGroup.GET("/calendrier/charge", h.Charge)
	readGroup.GET("/calendrier/rapport", h.Rapport)

	adminGroup := api.Group("", auth.RequireRole("admin", "gestionnaire"))
	adminGroup.POST("/calendrier/cache/invalidate", h.InvalidateCache)
	adminGroup.POST("/calendrier/cache/precharger", h.Precharger)
}

func parseDateParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return t, nil
}

func parseRange(c echo.Context) (time.Time, time.Time, error) {
	start, err := parseDateParam(c, "debut")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateParam(c, "fin")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parsePage(c echo.Context) (page, size int) {
	page, size = 0, 20
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := c.QueryParam("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}
	return page, size
}

func (h *Handler) Periode(c echo.Context) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}
	force := c.QueryParam("force") == "true"
	data, err := h.svc.GetOrRefresh(c.Request().Context(), start, end, force)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) Semaine(c echo.Context) error {
	date, err := parseDateParam(c, "date")
	if err != nil {
		return err
	}
	data, err := h.svc.GetWeekData(c.Request().Context(), date)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) EtudeRdvs(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	page, size := parsePage(c)
	data, err := h.svc.GetEtudeRdvs(c.Request().Context(), id, page, size)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) EtudeRdvsFocus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	focus, err := parseDateParam(c, "date")
	if err != nil {
		return err
	}
	page, size := parsePage(c)
	data, err := h.svc.GetEtudeRdvsWithFocusDate(c.Request().Context(), id, focus, page, size)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) EtudeRdvsDate(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	date, err := parseDateParam(c, "date")
	if err != nil {
		return err
	}
	views, err := h.svc.GetEtudeRdvsForDate(c.Request().Context(), id, date)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) VolontairePlanning(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	page, size := parsePage(c)
	views, meta, err := h.svc.GetVolontairePlanning(c.Request().Context(), id, page, size)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"rdvs": views, "meta": meta})
}

func (h *Handler) Statistiques(c echo.Context) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.GetPeriodStatistics(c.Request().Context(), start, end)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) CreneauxLibres(c echo.Context) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}
	plageDebut := rdv.Heure{Hour: 8}
	plageFin := rdv.Heure{Hour: 18}
	if v := c.QueryParam("de"); v != "" {
		if plageDebut, err = rdv.ParseHeure(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid de")
		}
	}
	if v := c.QueryParam("a"); v != "" {
		if plageFin, err = rdv.ParseHeure(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid a")
		}
	}
	data, err := h.svc.GetFreeSlots(c.Request().Context(), start, end, plageDebut, plageFin)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) Conflits(c echo.Context) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}
	data, err := h.svc.GetConflicts(c.Request().Context(), start, end)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) Charge(c echo.Context) error {
	weeks := 4
	if v := c.QueryParam("semaines"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid semaines")
		}
		weeks = n
	}
	data, err := h.svc.GetWorkloadTrends(c.Request().Context(), weeks)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) Rapport(c echo.Context) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}
	data, err := h.svc.GetUsageReport(c.Request().Context(), start, end)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) InvalidateCache(c echo.Context) error {
	h.svc.InvalidateCache()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Precharger(c echo.Context) error {
	if err := h.svc.Preload(c.Request().Context()); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
