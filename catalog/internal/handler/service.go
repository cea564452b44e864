package handler

import (
	"context"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/catalog/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	FilteredView(ctx context.Context) ([]model.Book, error)
	FilteredViewWith(ctx context.Context, criteria model.Criteria) ([]model.Book, error)
	Categories(ctx context.Context) ([]string, error)
	Book(ctx context.Context, id string) (model.Book, error)
	Stats(ctx context.Context) (model.Stats, error)
	SubmitNew(ctx context.Context, fields model.BookFields) (model.Book, error)
	SubmitEdit(ctx context.Context, id string, fields model.BookFields) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	Criteria() model.Criteria
	SetCriteria(criteria model.Criteria) model.Criteria
	ResetFilter() model.Criteria
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (model.SignInResponse, error)
	Logout()
	Register(ctx context.Context, req model.SignUpRequest) (model.MessageResponse, error)
	Verify(token string) (model.User, error)
}

var (
	_ CatalogService = (*service.Catalog)(nil)
	_ AuthService    = (*service.Gate)(nil)
)
