package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

func book(title, author, category string) model.Book {
	return model.Book{BookFields: model.BookFields{Title: title, Author: author, Category: category}}
}

func TestFilter(t *testing.T) {
	t.Parallel()
	books := []model.Book{
		book("Straße", "Anonyme", "Essai"),
		book("ÉTÉ INDIEN", "Kane", "Roman"),
		book("Xala", "Ousmane Sembène", "Littérature"),
	}

	tests := []struct {
		name     string
		criteria model.Criteria
		want     []string
	}{
		{name: "everything", criteria: model.DefaultCriteria(), want: []string{"Straße", "ÉTÉ INDIEN", "Xala"}},
		{name: "folded sharp s", criteria: model.Criteria{Search: "STRASSE"}, want: []string{"Straße"}},
		{name: "accented upper", criteria: model.Criteria{Search: "été"}, want: []string{"ÉTÉ INDIEN"}},
		{name: "decomposed term", criteria: model.Criteria{Search: "sembe\u0300ne"}, want: []string{"Xala"}},
		{name: "category only", criteria: model.Criteria{Category: "Roman"}, want: []string{"ÉTÉ INDIEN"}},
		{name: "term and category", criteria: model.Criteria{Search: "xala", Category: "Roman"}, want: []string{}},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, test.want, titles(Filter(books, test.criteria)))
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	books := []model.Book{
		{BookFields: model.BookFields{Status: model.StatusAvailable, Rating: 4}},
		{BookFields: model.BookFields{Status: model.StatusReserved, Rating: 3.75}},
		{BookFields: model.BookFields{Status: model.StatusReserved, Rating: 5}},
	}
	require.Equal(t, model.Stats{
		TotalBooks:     3,
		AvailableBooks: 1,
		ReservedBooks:  2,
		AverageRating:  4.3,
	}, Summarize(books))
	require.Equal(t, model.Stats{}, Summarize(nil))
}
