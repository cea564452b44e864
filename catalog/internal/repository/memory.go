package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memory struct {
	mu    sync.RWMutex
	books []model.Book
	// id -> position in books
	index map[string]int

	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

func NewMemory(log *zap.Logger, now func() time.Time) *memory {
	if now == nil {
		now = time.Now
	}
	return &memory{
		index: make(map[string]int),
		now:   now,
		newID: uuid.NewString,
		log:   log.Named("memory"),
	}
}

func (r *memory) Add(_ context.Context, fields model.BookFields) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for {
		if _, taken := r.index[id]; !taken {
			break
		}
		id = r.newID()
	}
	ts := r.now()
	book := model.Book{
		ID:         id,
		BookFields: fields,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	r.index[id] = len(r.books)
	r.books = append(r.books, book)
	r.log.Debug("Add", zap.String("id", id), zap.Int("size", len(r.books)))
	return book, nil
}

func (r *memory) Update(_ context.Context, id string, fields model.BookFields) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	book := r.books[pos]
	book.BookFields = fields
	book.UpdatedAt = nextUpdate(r.now(), book.UpdatedAt)
	r.books[pos] = book
	return book, nil
}

func (r *memory) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[id]
	if !ok {
		return errs.ErrNotFound
	}
	r.books = append(r.books[:pos], r.books[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.books); i++ {
		r.index[r.books[i].ID] = i
	}
	r.log.Debug("Remove", zap.String("id", id), zap.Int("size", len(r.books)))
	return nil
}

func (r *memory) Get(_ context.Context, id string) (model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return r.books[pos], nil
}

func (r *memory) List(_ context.Context) ([]model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]model.Book, len(r.books))
	copy(books, r.books)
	return books, nil
}

func (r *memory) Close() {}

// nextUpdate keeps updatedAt strictly increasing when the clock does not advance.
func nextUpdate(now, prev time.Time) time.Time {
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}
