package rdv

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/apperr"
	"github.com/Complexity-ML/cosmetest-back-sub001/internal/platform/auth"
	"github.com/Complexity-ML/cosmetest-back-sub001/pkg/pagination"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "gestionnaire", "recruteur"))
	readGroup.GET("/rdvs", h.List)
	readGroup.GET("/rdvs/:etudeId/:rdvId", h.Get)

	writeGroup := api.Group("", auth.RequireRole("admin", "gestionnaire"))
	writeGroup.POST("/rdvs", h.Create)
	writeGroup.PUT("/rdvs/:etudeId/:rdvId", h.Update)
	writeGroup.PUT("/rdvs/:etudeId/:rdvId/etat", h.ChangeEtat)
	writeGroup.PUT("/rdvs/:etudeId/:rdvId/volontaire", h.Assign)
	writeGroup.DELETE("/rdvs/:etudeId/:rdvId", h.Delete)
}

func (h *Handler) key(c echo.Context) (int, int, error) {
	etudeID, err := strconv.Atoi(c.Param("etudeId"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid etudeId")
	}
	rdvID, err := strconv.Atoi(c.Param("rdvId"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid rdvId")
	}
	return etudeID, rdvID, nil
}

func (h *Handler) Create(c echo.Context) error {
	var rv Rdv
	if err := c.Bind(&rv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &rv); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, rv)
}

func (h *Handler) Get(c echo.Context) error {
	etudeID, rdvID, err := h.key(c)
	if err != nil {
		return err
	}
	rv, err := h.svc.Get(c.Request().Context(), etudeID, rdvID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, rv)
}

// List serves the raw appointment feeds: by volunteer, by study, or by date
// window. Enriched calendar views live under /calendrier.
func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if v := c.QueryParam("volontaire_id"); v != "" {
		vid, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid volontaire_id")
		}
		items, total, err := h.svc.FindByVolontaire(ctx, vid, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	if v := c.QueryParam("etude_id"); v != "" {
		eid, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid etude_id")
		}
		items, total, err := h.svc.FindByEtude(ctx, eid, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	debut, fin := c.QueryParam("debut"), c.QueryParam("fin")
	if debut == "" || fin == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "volontaire_id, etude_id or debut+fin is required")
	}
	start, err := time.Parse(dateLayout, debut)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid debut")
	}
	end, err := time.Parse(dateLayout, fin)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid fin")
	}
	items, err := h.svc.FindByDateRange(ctx, start, end)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c echo.Context) error {
	etudeID, rdvID, err := h.key(c)
	if err != nil {
		return err
	}
	var rv Rdv
	if err := c.Bind(&rv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rv.EtudeID, rv.RdvID = etudeID, rdvID
	if err := h.svc.Update(c.Request().Context(), &rv); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *Handler) ChangeEtat(c echo.Context) error {
	etudeID, rdvID, err := h.key(c)
	if err != nil {
		return err
	}
	var body struct {
		Etat Etat `json:"etat"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rv, err := h.svc.ChangeEtat(c.Request().Context(), etudeID, rdvID, body.Etat)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *Handler) Assign(c echo.Context) error {
	etudeID, rdvID, err := h.key(c)
	if err != nil {
		return err
	}
	var body struct {
		VolontaireID *int `json:"volontaire_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rv, err := h.svc.Assign(c.Request().Context(), etudeID, rdvID, body.VolontaireID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *Handler) Delete(c echo.Context) error {
	etudeID, rdvID, err := h.key(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), etudeID, rdvID); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
