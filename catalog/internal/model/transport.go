package model

import (
	"bytes"
	"encoding/json"
	"time"
)

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignInResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

func (r SignInResponse) User() User {
	return User{ID: r.ID, Email: r.Email, FirstName: r.FirstName, LastName: r.LastName}
}

type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WireID decodes both numeric and string identifiers.
type WireID string

func (id *WireID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = WireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = WireID(n.String())
	return nil
}

// BookRequest is the write payload of the books API; status travels upper-cased.
type BookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	ISBN        string  `json:"isbn"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	PublishYear int     `json:"publishYear"`
	Rating      float64 `json:"rating"`
	CoverURL    string  `json:"coverUrl,omitempty"`
}

func NewBookRequest(f BookFields) BookRequest {
	return BookRequest{
		Title:       f.Title,
		Author:      f.Author,
		ISBN:        f.ISBN,
		Category:    f.Category,
		Status:      f.Status.Wire(),
		Description: f.Description,
		PublishYear: f.PublishYear,
		Rating:      f.Rating,
		CoverURL:    f.CoverURL,
	}
}

func (r BookRequest) Fields() BookFields {
	return BookFields{
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Category:    r.Category,
		Status:      ParseStatus(r.Status),
		Description: r.Description,
		PublishYear: r.PublishYear,
		Rating:      r.Rating,
		CoverURL:    r.CoverURL,
	}
}

type BookResponse struct {
	ID          WireID    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	PublishYear int       `json:"publishYear"`
	Rating      float64   `json:"rating"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewBookResponse(b Book) BookResponse {
	return BookResponse{
		ID:          WireID(b.ID),
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Category:    b.Category,
		Status:      b.Status.Wire(),
		Description: b.Description,
		PublishYear: b.PublishYear,
		Rating:      b.Rating,
		CoverURL:    b.CoverURL,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func NewBookResponses(books []Book) []BookResponse {
	items := make([]BookResponse, 0, len(books))
	for i := range books {
		items = append(items, NewBookResponse(books[i]))
	}
	return items
}

func (r BookResponse) Book() Book {
	return Book{
		ID: string(r.ID),
		BookFields: BookFields{
			Title:       r.Title,
			Author:      r.Author,
			ISBN:        r.ISBN,
			Category:    r.Category,
			Status:      ParseStatus(r.Status),
			Description: r.Description,
			PublishYear: r.PublishYear,
			Rating:      r.Rating,
			CoverURL:    r.CoverURL,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type EventType string

const (
	EventBookCreated EventType = "book.created"
	EventBookUpdated EventType = "book.updated"
	EventBookDeleted EventType = "book.deleted"
)

// BookEvent describes one catalog mutation. Book is absent for deletions.
type BookEvent struct {
	Type      EventType     `json:"type"`
	BookID    string        `json:"bookId"`
	Book      *BookResponse `json:"book,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
