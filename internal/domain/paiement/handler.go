package paiement

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/auth"
	"github.com/Complexity-ML/cosmetest-back-sub001/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "gestionnaire", "comptable"))
	readGroup.GET("/paiements", h.List)
	readGroup.GET("/paiements/:id", h.Get)
	readGroup.GET("/etudes/:etudeId/paiements/resume", h.EtudeSummary)

	writeGroup := api.Group("", auth.RequireRole("admin", "comptable"))
	writeGroup.POST("/paiements", h.Create)
	writeGroup.PUT("/paiements/:id", h.Update)
	writeGroup.POST("/paiements/:id/payer", h.MarkPaid)
	writeGroup.POST("/etudes/:etudeId/paiements/payer", h.MarkEtudePaid)
	writeGroup.DELETE("/paiements/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var p Paiement
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if v := c.QueryParam("etude_id"); v != "" {
		eid, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid etude_id")
		}
		items, total, err := h.svc.ListByEtude(ctx, eid, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	if v := c.QueryParam("volontaire_id"); v != "" {
		vid, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid volontaire_id")
		}
		items, total, err := h.svc.ListByVolontaire(ctx, vid, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	return echo.NewHTTPError(http.StatusBadRequest, "etude_id or volontaire_id is required")
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Paiement
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) MarkPaid(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.MarkPaid(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) MarkEtudePaid(c echo.Context) error {
	etudeID, err := strconv.Atoi(c.Param("etudeId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid etudeId")
	}
	n, err := h.svc.MarkEtudePaid(c.Request().Context(), etudeID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"regles": n})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) EtudeSummary(c echo.Context) error {
	etudeID, err := strconv.Atoi(c.Param("etudeId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid etudeId")
	}
	s, err := h.svc.SummaryByEtude(c.Request().Context(), etudeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}
