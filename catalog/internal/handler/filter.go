package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

// GetFilter godoc
// @Summary current filter criteria
// @Tags filter
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.Criteria
// @Router /api/filter [get]
func (h *Handler) GetFilter(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalogSvc.Criteria())
}

// SetFilter godoc
// @Summary replace filter criteria
// @Tags filter
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param criteria body model.Criteria true "criteria"
// @Success 200 {object} model.Criteria
// @Router /api/filter [put]
func (h *Handler) SetFilter(c echo.Context) error {
	var req model.Criteria
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.catalogSvc.SetCriteria(req))
}

// ResetFilter godoc
// @Summary reset filter criteria
// @Tags filter
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.Criteria
// @Router /api/filter [delete]
func (h *Handler) ResetFilter(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalogSvc.ResetFilter())
}
