package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/pkg/auth"
)

// SignIn godoc
// @Summary log in with a demo account
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body model.SignInRequest true "credentials"
// @Success 200 {object} model.SignInResponse
// @Failure 401 {object} echo.HTTPError
// @Router /api/auth/signin [post]
func (h *Handler) SignIn(c echo.Context) error {
	var req model.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.authSvc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// SignUp godoc
// @Summary register (no account is created)
// @Tags auth
// @Accept json
// @Produce json
// @Param user body model.SignUpRequest true "user"
// @Success 201 {object} model.MessageResponse
// @Router /api/auth/signup [post]
func (h *Handler) SignUp(c echo.Context) error {
	var req model.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.authSvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Logout godoc
// @Summary end the session
// @Tags auth
// @Success 204
// @Router /api/auth/logout [post]
func (h *Handler) Logout(c echo.Context) error {
	h.authSvc.Logout()
	return c.NoContent(http.StatusNoContent)
}

// Verify godoc
// @Summary current user of a session token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} echo.HTTPError
// @Router /api/auth/verify [get]
func (h *Handler) Verify(c echo.Context) error {
	token, ok := auth.BearerToken(c.Request().Header.Get(auth.AuthorizationHeader))
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errNoToken)
	}
	user, err := h.authSvc.Verify(token)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
