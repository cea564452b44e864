package service

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

// Filter keeps the books whose title or author contains the search term,
// ignoring case, and whose category matches. Store order is kept.
func Filter(books []model.Book, criteria model.Criteria) []model.Book {
	criteria = criteria.Normalize()
	// a Caser holds state and is not safe for concurrent use
	fold := cases.Fold()
	term := fold.String(norm.NFC.String(criteria.Search))

	out := make([]model.Book, 0, len(books))
	for _, b := range books {
		if criteria.Category != model.CategoryAll && b.Category != criteria.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(fold.String(norm.NFC.String(b.Title)), term) &&
			!strings.Contains(fold.String(norm.NFC.String(b.Author)), term) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func Categories(books []model.Book) []string {
	seen := make(map[string]struct{}, len(books))
	out := make([]string, 0)
	for _, b := range books {
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		out = append(out, b.Category)
	}
	return out
}

func Summarize(books []model.Book) model.Stats {
	var (
		s   model.Stats
		sum float64
	)
	for _, b := range books {
		s.TotalBooks++
		sum += b.Rating
		switch b.Status {
		case model.StatusAvailable:
			s.AvailableBooks++
		case model.StatusBorrowed:
			s.BorrowedBooks++
		case model.StatusReserved:
			s.ReservedBooks++
		}
	}
	if s.TotalBooks > 0 {
		s.AverageRating = math.Round(sum/float64(s.TotalBooks)*10) / 10
	}
	return s
}
