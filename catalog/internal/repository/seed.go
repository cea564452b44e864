package repository

import (
	"context"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/pkg/errors"
)

// DemoBooks is the catalog the demo mode starts with.
func DemoBooks() []model.BookFields {
	return []model.BookFields{
		{
			Title:       "Une si longue lettre",
			Author:      "Mariama Bâ",
			ISBN:        "9782070370221",
			Category:    "Littérature",
			Status:      model.StatusAvailable,
			Description: "Roman épistolaire emblématique de la littérature africaine",
			PublishYear: 1979,
			Rating:      4.8,
		},
		{
			Title:       "L'Aventure ambiguë",
			Author:      "Cheikh Hamidou Kane",
			ISBN:        "9782070361946",
			Category:    "Littérature",
			Status:      model.StatusBorrowed,
			Description: "Un classique de la littérature sénégalaise sur la rencontre des cultures",
			PublishYear: 1961,
			Rating:      4.6,
		},
		{
			Title:       "Le Docker noir",
			Author:      "Ousmane Sembène",
			ISBN:        "9782070367891",
			Category:    "Littérature",
			Status:      model.StatusAvailable,
			Description: "Premier roman du père du cinéma africain",
			PublishYear: 1956,
			Rating:      4.3,
		},
		{
			Title:       "Xala",
			Author:      "Ousmane Sembène",
			ISBN:        "9782070415823",
			Category:    "Littérature",
			Status:      model.StatusReserved,
			Description: "Satire sociale sur la bourgeoisie africaine post-coloniale",
			PublishYear: 1973,
			Rating:      4.4,
		},
		{
			Title:       "Le Ventre de l'Atlantique",
			Author:      "Fatou Diome",
			ISBN:        "9782253107316",
			Category:    "Littérature",
			Status:      model.StatusAvailable,
			Description: "Roman sur l'immigration et l'identité franco-sénégalaise",
			PublishYear: 2003,
			Rating:      4.5,
		},
	}
}

// Seed adds books to an empty store. A store that already holds records is left as is.
func Seed(ctx context.Context, repo Repository, books []model.BookFields) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list")
	}
	if len(existing) > 0 {
		return nil
	}
	for _, b := range books {
		if _, err := repo.Add(ctx, b); err != nil {
			return errors.Wrapf(err, "add %q", b.Title)
		}
	}
	return nil
}
