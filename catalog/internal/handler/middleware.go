package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/catalog-service/pkg/auth"
)

const (
	errNoToken      = "no token in Authorization header"
	errTokenInvalid = "token is invalid"
)

// authenticate lets a request through only with the token of the current session.
func (h *Handler) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := auth.BearerToken(c.Request().Header.Get(auth.AuthorizationHeader))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, errNoToken)
		}
		user, err := h.authSvc.Verify(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, errTokenInvalid)
		}
		ctx := auth.SetAuthContext(c.Request().Context(), auth.Profile{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		})
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
