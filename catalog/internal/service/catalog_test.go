package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/catalog/internal/repository"
	"github.com/Astemirdum/catalog-service/catalog/internal/validation"
)

type recordPublisher struct {
	mu     sync.Mutex
	events []model.BookEvent
	err    error
}

func (p *recordPublisher) Publish(_ context.Context, ev model.BookEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestCatalog(t *testing.T, seed bool) (*Catalog, *recordPublisher) {
	t.Helper()
	repo := repository.NewMemory(zap.NewNop(), nil)
	if seed {
		require.NoError(t, repository.Seed(context.Background(), repo, repository.DemoBooks()))
	}
	pub := &recordPublisher{}
	return NewCatalog(repo, validation.New(fixedNow), pub, zap.NewNop()), pub
}

func validFields() model.BookFields {
	return model.BookFields{
		Title:       "Les Bouts de bois de Dieu",
		Author:      "Ousmane Sembène",
		ISBN:        "9782266028783",
		Category:    "Roman",
		Status:      model.StatusAvailable,
		PublishYear: 1960,
		Rating:      4.7,
	}
}

func titles(books []model.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestCatalog_FilteredView_Default(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestCatalog(t, true)

	view, err := c.FilteredView(ctx)
	require.NoError(t, err)

	all, err := c.repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, all, view)
	require.Equal(t, model.DefaultCriteria(), c.Criteria())
}

func TestCatalog_SearchXala(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestCatalog(t, true)

	c.SetSearchTerm("xala")
	view, err := c.FilteredView(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Xala"}, titles(view))
}

func TestCatalog_FilteredView(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{
			name:   "author match",
			search: "SEMBÈNE",
			want:   []string{"Le Docker noir", "Xala"},
		},
		{
			name:     "category and term",
			search:   "lettre",
			category: "Littérature",
			want:     []string{"Une si longue lettre"},
		},
		{
			name:     "unknown category",
			category: "Poésie",
			want:     []string{},
		},
		{
			name:   "no match",
			search: "tolstoï",
			want:   []string{},
		},
		{
			name:     "empty category means all",
			search:   "atlantique",
			category: "",
			want:     []string{"Le Ventre de l'Atlantique"},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			c, _ := newTestCatalog(t, true)
			c.SetSearchTerm(test.search)
			c.SetCategory(test.category)

			view, err := c.FilteredView(context.Background())
			require.NoError(t, err)
			require.Equal(t, test.want, titles(view))
		})
	}
}

func TestCatalog_FilteredViewWith(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestCatalog(t, true)
	c.SetSearchTerm("xala")

	view, err := c.FilteredViewWith(ctx, model.Criteria{Search: "aventure"})
	require.NoError(t, err)
	require.Equal(t, []string{"L'Aventure ambiguë"}, titles(view))
	require.Equal(t, "xala", c.Criteria().Search)
}

func TestCatalog_CriteriaSurviveMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestCatalog(t, true)
	c.SetSearchTerm("sembène")

	book, err := c.SubmitNew(ctx, validFields())
	require.NoError(t, err)

	view, err := c.FilteredView(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Le Docker noir", "Xala", "Les Bouts de bois de Dieu"}, titles(view))

	require.NoError(t, c.DeleteBook(ctx, book.ID))
	require.Equal(t, "sembène", c.Criteria().Search)

	require.Equal(t, model.DefaultCriteria(), c.ResetFilter())
	view, err = c.FilteredView(ctx)
	require.NoError(t, err)
	require.Len(t, view, len(repository.DemoBooks()))
}

func TestCatalog_SubmitNew_Invalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, pub := newTestCatalog(t, true)

	fields := validFields()
	fields.Title = "   "
	fields.Rating = 7

	_, err := c.SubmitNew(ctx, fields)
	require.ErrorIs(t, err, errs.ErrValidation)

	var vErr *errs.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Contains(t, vErr.Fields, "title")
	require.Contains(t, vErr.Fields, "rating")

	books, err := c.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, len(repository.DemoBooks()))
	require.Empty(t, pub.types())
}

func TestCatalog_SubmitNew_Defaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, pub := newTestCatalog(t, false)

	fields := validFields()
	fields.Category = ""
	fields.Status = ""

	book, err := c.SubmitNew(ctx, fields)
	require.NoError(t, err)
	require.Equal(t, model.DefaultCategory, book.Category)
	require.Equal(t, model.StatusAvailable, book.Status)
	require.Equal(t, []model.EventType{model.EventBookCreated}, pub.types())
	require.Equal(t, book.ID, pub.events[0].BookID)
	require.Equal(t, "AVAILABLE", pub.events[0].Book.Status)
}

func TestCatalog_SubmitEdit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, pub := newTestCatalog(t, true)

	books, err := c.repo.List(ctx)
	require.NoError(t, err)
	target := books[1]

	fields := target.BookFields
	fields.Status = model.StatusAvailable
	updated, err := c.SubmitEdit(ctx, target.ID, fields)
	require.NoError(t, err)
	require.Equal(t, target.ID, updated.ID)
	require.Equal(t, target.CreatedAt, updated.CreatedAt)
	require.True(t, updated.UpdatedAt.After(target.UpdatedAt))
	require.Equal(t, model.StatusAvailable, updated.Status)

	after, err := c.repo.List(ctx)
	require.NoError(t, err)
	for i := range books {
		if i == 1 {
			continue
		}
		require.Equal(t, books[i], after[i])
	}

	_, err = c.SubmitEdit(ctx, "missing", fields)
	require.ErrorIs(t, err, errs.ErrNotFound)

	fields.PublishYear = 999
	_, err = c.SubmitEdit(ctx, target.ID, fields)
	require.ErrorIs(t, err, errs.ErrValidation)

	require.Equal(t, []model.EventType{model.EventBookUpdated}, pub.types())
}

func TestCatalog_DeleteBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, pub := newTestCatalog(t, true)

	books, err := c.repo.List(ctx)
	require.NoError(t, err)

	require.NoError(t, c.DeleteBook(ctx, books[0].ID))
	require.ErrorIs(t, c.DeleteBook(ctx, books[0].ID), errs.ErrNotFound)
	_, err = c.Book(ctx, books[0].ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.Equal(t, []model.EventType{model.EventBookDeleted}, pub.types())
	require.Nil(t, pub.events[0].Book)
}

func TestCatalog_PublishFailureKeepsMutation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, pub := newTestCatalog(t, false)
	pub.err = errors.New("broker down")

	book, err := c.SubmitNew(ctx, validFields())
	require.NoError(t, err)

	got, err := c.Book(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, book, got)
}

func TestCatalog_Categories(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestCatalog(t, true)

	cats, err := c.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Littérature"}, cats)

	_, err = c.SubmitNew(ctx, validFields())
	require.NoError(t, err)
	cats, err = c.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Littérature", "Roman"}, cats)
}

func TestCatalog_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, _ := newTestCatalog(t, true)
	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, model.Stats{
		TotalBooks:     5,
		AvailableBooks: 3,
		BorrowedBooks:  1,
		ReservedBooks:  1,
		AverageRating:  4.5,
	}, stats)

	empty, _ := newTestCatalog(t, false)
	stats, err = empty.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, model.Stats{}, stats)
}

func TestCatalog_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestCatalog(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.SubmitNew(ctx, validFields())
			assert.NoError(t, err)
			_, err = c.FilteredView(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	books, err := c.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 20)
}
