package book

import (
	"context"
)

// Repository defines the contract for book and comment storage.
//
// FindBook returns ErrNotFound when no row matches. SaveBook and SaveComment
// insert when the ID is zero and assign it; SaveBook replaces the row otherwise.
// SaveComment returns ErrInvalidReference when the parent book is gone.
// DeleteBook cascades to the book's comments.
type Repository interface {
	FindBook(ctx context.Context, id int64) (Book, error)
	FindBooks(ctx context.Context, filter TitleFilter, page PageRequest) ([]Book, error)
	SaveBook(ctx context.Context, b *Book) error
	DeleteBook(ctx context.Context, b Book) error
	SaveComment(ctx context.Context, c *Comment) error
	FindCommentsByBookID(ctx context.Context, bookID int64) ([]Comment, error)
}
