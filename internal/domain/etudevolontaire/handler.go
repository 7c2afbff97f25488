package etudevolontaire

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
	readGroup := api.Group("", auth.RequireRole("admin", "gestionnaire", "recruteur"))
	readGroup.GET("/etude-volontaires", h.List)
	readGroup.GET("/etude-volontaires/:etudeId/:volontaireId", h.Get)

	writeGroup := api.Group("", auth.RequireRole("admin", "gestionnaire"))
	writeGroup.POST("/etude-volontaires", h.Enroll)
	writeGroup.PUT("/etude-volontaires/:etudeId/:volontaireId/statut", h.ChangeStatut)
	writeGroup.PUT("/etude-volontaires/:etudeId/:volontaireId/paye", h.MarkPaye)
	writeGroup.DELETE("/etude-volontaires/:etudeId/:volontaireId", h.Remove)
}

func (h *Handler) key(c echo.Context) (int, int, error) {
	etudeID, err := strconv.Atoi(c.Param("etudeId"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid etudeId")
	}
	volontaireID, err := strconv.Atoi(c.Param("volontaireId"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid volontaireId")
	}
	return etudeID, volontaireID, nil
}

func (h *Handler) Enroll(c echo.Context) error {
	var ev EtudeVolontaire
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Enroll(c.Request().Context(), &ev); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, ev)
}

func (h *Handler) Get(c echo.Context) error {
	etudeID, volontaireID, err := h.key(c)
	if err != nil {
		return err
	}
	ev, err := h.svc.Get(c.Request().Context(), etudeID, volontaireID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, ev)
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

func (h *Handler) ChangeStatut(c echo.Context) error {
	etudeID, volontaireID, err := h.key(c)
	if err != nil {
		return err
	}
	var body struct {
		Statut string `json:"statut"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ev, err := h.svc.ChangeStatut(c.Request().Context(), etudeID, volontaireID, body.Statut)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *Handler) MarkPaye(c echo.Context) error {
	etudeID, volontaireID, err := h.key(c)
	if err != nil {
		return err
	}
	var body struct {
		Paye bool `json:"paye"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ev, err := h.svc.MarkPaye(c.Request().Context(), etudeID, volontaireID, body.Paye)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *Handler) Remove(c echo.Context) error {
	etudeID, volontaireID, err := h.key(c)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), etudeID, volontaireID); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
