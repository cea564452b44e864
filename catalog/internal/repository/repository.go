package repository

import (
	"context"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

// Repository is the Catalog Store: the only owner of the ordered collection of
// book records. Validation is the caller's job.
type Repository interface {
	Add(ctx context.Context, fields model.BookFields) (model.Book, error)
	Update(ctx context.Context, id string, fields model.BookFields) (model.Book, error)
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (model.Book, error)
	// List returns a snapshot in insertion order.
	List(ctx context.Context) ([]model.Book, error)
	Close()
}

// StatsProvider is implemented by stores able to summarise the catalog themselves.
type StatsProvider interface {
	Stats(ctx context.Context) (model.Stats, error)
}

var (
	_ Repository = (*memory)(nil)
	_ Repository = (*postgres)(nil)
	_ Repository = (*remote)(nil)

	_ StatsProvider = (*postgres)(nil)
	_ StatsProvider = (*remote)(nil)
)
