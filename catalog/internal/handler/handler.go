package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	md "github.com/Astemirdum/catalog-service/pkg/middleware"
	"github.com/Astemirdum/catalog-service/pkg/validate"
	_ "github.com/Astemirdum/catalog-service/swagger"
)

type Handler struct {
	catalogSvc CatalogService
	authSvc    AuthService
	log        *zap.Logger
}

func New(catalogSvc CatalogService, authSvc AuthService, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		authSvc:    authSvc,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	authGroup := api.Group("/auth")
	authGroup.POST("/signin", h.SignIn)
	authGroup.POST("/signup", h.SignUp)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/verify", h.Verify)

	books := api.Group("/books", h.authenticate)
	books.GET("", h.ListBooks)
	books.POST("", h.CreateBook)
	books.GET("/stats", h.Stats)
	books.GET("/categories", h.Categories)
	books.GET("/:id", h.GetBook)
	books.PUT("/:id", h.UpdateBook)
	books.DELETE("/:id", h.DeleteBook)

	filter := api.Group("/filter", h.authenticate)
	filter.GET("", h.GetFilter)
	filter.PUT("", h.SetFilter)
	filter.DELETE("", h.ResetFilter)

	return e
}

// Health godoc
// @Summary liveness probe
// @Tags manage
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// errorResponse maps a service error to its HTTP form.
func (h *Handler) errorResponse(c echo.Context, err error) error {
	var (
		vErr   *errs.ValidationError
		apiErr *errs.APIError
	)
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusUnprocessableEntity, errs.ValidationErrorResponse{
			Message: errs.ErrValidation.Error(),
			Errors:  vErr.Fields,
		})
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials), errors.Is(err, errs.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.As(err, &apiErr):
		h.log.Warn("backend", zap.Int("status", apiErr.Status), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, apiErr.Message)
	}
	h.log.Error("internal", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
