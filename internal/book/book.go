package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidReference is returned when a comment points at a book that does not exist.
	ErrInvalidReference = errors.New("referenced book does not exist")
	// ErrPersistence wraps store failures on writes.
	ErrPersistence = errors.New("persistence failure")
)

// Book is the aggregate root. Comments are loaded separately through
// Repository.FindCommentsByBookID.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// Patch returns a replacement record carrying ID and CreatedAt over from b.
// Every field the update does not own must be copied here explicitly.
func (b Book) Patch(in BookInput) Book {
	return Book{
		ID:        b.ID,
		CreatedAt: b.CreatedAt,
		Title:     in.Title,
		Price:     in.Price,
	}
}

// Comment belongs to exactly one Book.
type Comment struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	Comment   string    `json:"comment"`
	Page      *int      `json:"page,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BookInput carries the user-editable fields of a Book.
type BookInput struct {
	Title string `json:"title" validate:"notblank,max=255"`
	Price int    `json:"price" validate:"min=100"`
}

// CommentInput carries the fields needed to create a Comment.
type CommentInput struct {
	BookID  int64   `json:"book_id" validate:"gt=0"`
	Comment *string `json:"comment" validate:"required,max=255"`
	Page    *int    `json:"page,omitempty" validate:"omitempty,gt=0"`
}

// SearchParams are the raw, possibly absent, inputs of a book search.
type SearchParams struct {
	Title     string
	Page      *int
	Size      *int
	Direction *Direction
}

// TitleFilter restricts a FindBooks query to titles containing Contains.
// An empty Contains matches every book.
type TitleFilter struct {
	Contains        string
	CaseInsensitive bool
}

// copyPage detaches an optional page number from the caller's variable.
func copyPage(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
