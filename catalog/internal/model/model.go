package model

import (
	"strings"
	"time"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusBorrowed  Status = "borrowed"
	StatusReserved  Status = "reserved"
)

// ParseStatus accepts the wire (upper-case) as well as the lower-case form.
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

func (s Status) Wire() string {
	return strings.ToUpper(string(s))
}

const (
	// CategoryAll selects every category in Criteria.
	CategoryAll     = "all"
	DefaultCategory = "Littérature"
)

// Categories offered by the book form. Any other value is accepted as free text.
var Categories = []string{
	"Littérature",
	"Poésie",
	"Théâtre",
	"Histoire",
	"Essai",
	"Roman",
	"Nouvelles",
	"Biographie",
	"Sciences",
	"Autre",
}

// BookFields is the editable part of a book record.
type BookFields struct {
	Title       string  `json:"title" validate:"notblank"`
	Author      string  `json:"author" validate:"notblank"`
	ISBN        string  `json:"isbn" validate:"notblank"`
	Category    string  `json:"category"`
	Status      Status  `json:"status" validate:"oneof=available borrowed reserved"`
	Description string  `json:"description"`
	PublishYear int     `json:"publishYear" validate:"publishyear"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
	CoverURL    string  `json:"coverUrl,omitempty"`
}

// WithDefaults fills the fields the book form preselects.
func (f BookFields) WithDefaults() BookFields {
	if strings.TrimSpace(f.Category) == "" {
		f.Category = DefaultCategory
	}
	if f.Status == "" {
		f.Status = StatusAvailable
	}
	return f
}

type Book struct {
	ID         string `json:"id"`
	BookFields `json:",inline"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Criteria struct {
	Search   string `json:"search"`
	Category string `json:"category"`
}

func DefaultCriteria() Criteria {
	return Criteria{Category: CategoryAll}
}

// Normalize maps an empty category to CategoryAll.
func (c Criteria) Normalize() Criteria {
	if c.Category == "" {
		c.Category = CategoryAll
	}
	return c
}

type Stats struct {
	TotalBooks     int     `json:"totalBooks"`
	AvailableBooks int     `json:"availableBooks"`
	BorrowedBooks  int     `json:"borrowedBooks"`
	ReservedBooks  int     `json:"reservedBooks"`
	AverageRating  float64 `json:"averageRating"`
}

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
