package etude

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
	readGroup.GET("/etudes", h.List)
	readGroup.GET("/etudes/:id", h.Get)
	readGroup.GET("/etudes/ref/:ref", h.GetByRef)

	writeGroup := api.Group("", auth.RequireRole("admin", "gestionnaire"))
	writeGroup.POST("/etudes", h.Create)
	writeGroup.PUT("/etudes/:id", h.Update)
	writeGroup.DELETE("/etudes/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var e Etude
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &e); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) GetByRef(c echo.Context) error {
	e, err := h.svc.GetByRef(c.Request().Context(), c.Param("ref"))
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, key := range []string{"ref", "titre", "type", "active_le"} {
		if p := c.QueryParam(key); p != "" {
			params[key] = p
		}
	}
	items, total, err := h.svc.Search(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e Etude
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.Update(c.Request().Context(), &e); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, e)
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
