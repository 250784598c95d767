package book

import (
	"context"
	"fmt"
	"time"
)

// Service provides book-related business logic.
type Service struct {
	repo            Repository
	now             func() time.Time
	caseInsensitive bool
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCaseInsensitiveSearch makes title search ignore case.
func WithCaseInsensitiveSearch(on bool) Option {
	return func(s *Service) { s.caseInsensitive = on }
}

// NewService creates a new book service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBook validates and stores a new book, returning its ID.
func (s *Service) CreateBook(ctx context.Context, in BookInput) (int64, error) {
	if err := ValidateBook(in); err != nil {
		return 0, err
	}

	b := &Book{
		Title:     in.Title,
		Price:     in.Price,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.SaveBook(ctx, b); err != nil {
		return 0, fmt.Errorf("%w: create book: %w", ErrPersistence, err)
	}
	return b.ID, nil
}

// ReadBook returns a book with its comments in creation order.
func (s *Service) ReadBook(ctx context.Context, id int64) (BookReadView, error) {
	b, err := s.repo.FindBook(ctx, id)
	if err != nil {
		return BookReadView{}, err
	}
	comments, err := s.repo.FindCommentsByBookID(ctx, b.ID)
	if err != nil {
		return BookReadView{}, fmt.Errorf("load comments of book %d: %w", b.ID, err)
	}
	return NewBookReadView(&b, comments), nil
}

// EditBook returns the fields an editor can change.
func (s *Service) EditBook(ctx context.Context, id int64) (BookEditView, error) {
	b, err := s.repo.FindBook(ctx, id)
	if err != nil {
		return BookEditView{}, err
	}
	return NewBookEditView(&b), nil
}

// UpdateBook replaces title and price, keeping ID and CreatedAt.
func (s *Service) UpdateBook(ctx context.Context, id int64, in BookInput) error {
	if err := ValidateBook(in); err != nil {
		return err
	}

	existing, err := s.repo.FindBook(ctx, id)
	if err != nil {
		return err
	}

	updated := existing.Patch(in)
	if err := s.repo.SaveBook(ctx, &updated); err != nil {
		return fmt.Errorf("%w: update book %d: %w", ErrPersistence, id, err)
	}
	return nil
}

// DeleteBook removes a book and its comments.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	b, err := s.repo.FindBook(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBook(ctx, b); err != nil {
		return fmt.Errorf("%w: delete book %d: %w", ErrPersistence, id, err)
	}
	return nil
}

// SearchBooks lists books whose title contains p.Title, paged and ordered
// by creation time. Rows are returned in store order.
func (s *Service) SearchBooks(ctx context.Context, p SearchParams) ([]BookListView, error) {
	page := NewPageRequest(p.Page, p.Size, p.Direction)
	filter := TitleFilter{Contains: p.Title, CaseInsensitive: s.caseInsensitive}

	books, err := s.repo.FindBooks(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}

	out := make([]BookListView, 0, len(books))
	for i := range books {
		out = append(out, NewBookListView(&books[i]))
	}
	return out, nil
}
