package service

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/catalog/internal/repository"
)

type Validator interface {
	Validate(fields model.BookFields) errs.FieldErrors
}

// Publisher delivers catalog change events.
type Publisher interface {
	Publish(ctx context.Context, ev model.BookEvent) error
}

// Catalog routes user intents to the store and derives the filtered view.
// Every intent runs under one lock, so the filter criteria and the store
// always change as a whole.
type Catalog struct {
	mu        sync.Mutex
	criteria  model.Criteria
	repo      repository.Repository
	validator Validator
	publisher Publisher
	now       func() time.Time
	log       *zap.Logger
}

func NewCatalog(repo repository.Repository, validator Validator, publisher Publisher, log *zap.Logger) *Catalog {
	return &Catalog{
		criteria:  model.DefaultCriteria(),
		repo:      repo,
		validator: validator,
		publisher: publisher,
		now:       time.Now,
		log:       log.Named("catalog"),
	}
}

func (c *Catalog) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Search = term
}

func (c *Catalog) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Category = category
	c.criteria = c.criteria.Normalize()
}

// SetCriteria replaces both predicates at once.
func (c *Catalog) SetCriteria(criteria model.Criteria) model.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria.Normalize()
	return c.criteria
}

func (c *Catalog) ResetFilter() model.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = model.DefaultCriteria()
	return c.criteria
}

func (c *Catalog) Criteria() model.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// FilteredView applies the current criteria to a fresh store snapshot.
func (c *Catalog) FilteredView(ctx context.Context) ([]model.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtered(ctx, c.criteria)
}

// FilteredViewWith evaluates criteria without storing them.
func (c *Catalog) FilteredViewWith(ctx context.Context, criteria model.Criteria) ([]model.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtered(ctx, criteria)
}

func (c *Catalog) filtered(ctx context.Context, criteria model.Criteria) ([]model.Book, error) {
	books, err := c.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list")
	}
	return Filter(books, criteria), nil
}

func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	books, err := c.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list")
	}
	return Categories(books), nil
}

func (c *Catalog) Book(ctx context.Context, id string) (model.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repo.Get(ctx, id)
}

func (c *Catalog) Stats(ctx context.Context) (model.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sp, ok := c.repo.(repository.StatsProvider); ok {
		return sp.Stats(ctx)
	}
	books, err := c.repo.List(ctx)
	if err != nil {
		return model.Stats{}, errors.Wrap(err, "list")
	}
	return Summarize(books), nil
}

// SubmitNew validates fields and adds the book. Nothing is stored when a rule fails.
func (c *Catalog) SubmitNew(ctx context.Context, fields model.BookFields) (model.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fields = fields.WithDefaults()
	if fe := c.validator.Validate(fields); len(fe) > 0 {
		return model.Book{}, &errs.ValidationError{Fields: fe}
	}
	book, err := c.repo.Add(ctx, fields)
	if err != nil {
		return model.Book{}, err
	}
	c.publish(ctx, model.EventBookCreated, book.ID, &book)
	return book, nil
}

func (c *Catalog) SubmitEdit(ctx context.Context, id string, fields model.BookFields) (model.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fields = fields.WithDefaults()
	if fe := c.validator.Validate(fields); len(fe) > 0 {
		return model.Book{}, &errs.ValidationError{Fields: fe}
	}
	book, err := c.repo.Update(ctx, id, fields)
	if err != nil {
		return model.Book{}, err
	}
	c.publish(ctx, model.EventBookUpdated, book.ID, &book)
	return book, nil
}

func (c *Catalog) DeleteBook(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.repo.Remove(ctx, id); err != nil {
		return err
	}
	c.publish(ctx, model.EventBookDeleted, id, nil)
	return nil
}

// publish never fails the intent: the store has already changed.
func (c *Catalog) publish(ctx context.Context, typ model.EventType, id string, book *model.Book) {
	if c.publisher == nil {
		return
	}
	ev := model.BookEvent{
		Type:      typ,
		BookID:    id,
		Timestamp: c.now().UTC(),
	}
	if book != nil {
		resp := model.NewBookResponse(*book)
		ev.Book = &resp
	}
	if err := c.publisher.Publish(ctx, ev); err != nil {
		c.log.Warn("publish", zap.String("type", string(typ)), zap.String("id", id), zap.Error(err))
	}
}
