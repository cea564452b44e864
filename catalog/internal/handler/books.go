package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

// ListBooks godoc
// @Summary filtered book list
// @Description search and category override the stored filter for this call only
// @Tags books
// @Security BearerAuth
// @Produce json
// @Param search query string false "title or author substring"
// @Param category query string false "category or all"
// @Success 200 {array} model.BookResponse
// @Failure 401 {object} echo.HTTPError
// @Router /api/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	params := c.QueryParams()

	var (
		books []model.Book
		err   error
	)
	if params.Has("search") || params.Has("category") {
		criteria := h.catalogSvc.Criteria()
		if params.Has("search") {
			criteria.Search = params.Get("search")
		}
		if params.Has("category") {
			criteria.Category = params.Get("category")
		}
		books, err = h.catalogSvc.FilteredViewWith(ctx, criteria)
	} else {
		books, err = h.catalogSvc.FilteredView(ctx)
	}
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, model.NewBookResponses(books))
}

// GetBook godoc
// @Summary one book
// @Tags books
// @Security BearerAuth
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} model.BookResponse
// @Failure 404 {object} echo.HTTPError
// @Router /api/books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.catalogSvc.Book(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, model.NewBookResponse(book))
}

// CreateBook godoc
// @Summary add a book
// @Tags books
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param book body model.BookRequest true "book"
// @Success 201 {object} model.BookResponse
// @Failure 422 {object} errs.ValidationErrorResponse
// @Router /api/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalogSvc.SubmitNew(c.Request().Context(), req.Fields())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, model.NewBookResponse(book))
}

// UpdateBook godoc
// @Summary replace the editable fields of a book
// @Tags books
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "book id"
// @Param book body model.BookRequest true "book"
// @Success 200 {object} model.BookResponse
// @Failure 404 {object} echo.HTTPError
// @Failure 422 {object} errs.ValidationErrorResponse
// @Router /api/books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalogSvc.SubmitEdit(c.Request().Context(), c.Param("id"), req.Fields())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, model.NewBookResponse(book))
}

// DeleteBook godoc
// @Summary remove a book
// @Tags books
// @Security BearerAuth
// @Param id path string true "book id"
// @Success 204
// @Failure 404 {object} echo.HTTPError
// @Router /api/books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.catalogSvc.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		return h.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats godoc
// @Summary catalog summary
// @Tags books
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.Stats
// @Router /api/books/stats [get]
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.catalogSvc.Stats(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Categories godoc
// @Summary distinct categories present in the catalog
// @Tags books
// @Security BearerAuth
// @Produce json
// @Success 200 {array} string
// @Router /api/books/categories [get]
func (h *Handler) Categories(c echo.Context) error {
	cats, err := h.catalogSvc.Categories(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}
