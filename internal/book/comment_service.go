package book

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CommentService creates comments on existing books.
type CommentService struct {
	repo Repository
	now  func() time.Time
}

func NewCommentService(repo Repository, opts ...Option) *CommentService {
	// Reuse the book service options so both share one clock.
	base := NewService(repo, opts...)
	return &CommentService{repo: repo, now: base.now}
}

// CreateComment stores a comment under an existing book. A missing parent
// yields ErrInvalidReference and nothing is written.
func (s *CommentService) CreateComment(ctx context.Context, in CommentInput) (CommentView, error) {
	if err := ValidateComment(in); err != nil {
		return CommentView{}, err
	}

	parent, err := s.repo.FindBook(ctx, in.BookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return CommentView{}, fmt.Errorf("%w: book %d: %w", ErrInvalidReference, in.BookID, err)
		}
		return CommentView{}, err
	}

	c := &Comment{
		BookID:    parent.ID,
		Comment:   *in.Comment,
		Page:      copyPage(in.Page),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.SaveComment(ctx, c); err != nil {
		if errors.Is(err, ErrInvalidReference) {
			return CommentView{}, err
		}
		return CommentView{}, fmt.Errorf("%w: create comment: %w", ErrPersistence, err)
	}
	return NewCommentView(c), nil
}
