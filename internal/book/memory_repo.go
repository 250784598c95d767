package book

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var _ Repository = &MemoryRepo{}

// MemoryRepo keeps books and comments in process memory.
type MemoryRepo struct {
	mu            sync.Mutex
	nextBookID    int64
	nextCommentID int64
	books         map[int64]Book
	comments      map[int64]Comment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextBookID:    1,
		nextCommentID: 1,
		books:         make(map[int64]Book),
		comments:      make(map[int64]Comment),
	}
}

func (m *MemoryRepo) FindBook(ctx context.Context, id int64) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (m *MemoryRepo) FindBooks(ctx context.Context, filter TitleFilter, page PageRequest) ([]Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := filter.Contains
	if filter.CaseInsensitive {
		needle = strings.ToLower(needle)
	}

	var matched []Book
	for _, b := range m.books {
		title := b.Title
		if filter.CaseInsensitive {
			title = strings.ToLower(title)
		}
		if needle == "" || strings.Contains(title, needle) {
			matched = append(matched, b)
		}
	}

	sort.Sort(booksByCreation{books: matched, desc: page.Direction == Desc})

	start := page.Offset()
	if start < 0 || start >= len(matched) {
		return []Book{}, nil
	}
	end := len(matched)
	if n := page.Limit(); n < end-start {
		end = start + n
	}
	return matched[start:end], nil
}

func (m *MemoryRepo) SaveBook(ctx context.Context, b *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.ID == 0 {
		b.ID = m.nextBookID
		m.nextBookID++
	} else if _, ok := m.books[b.ID]; !ok {
		return fmt.Errorf("memory: book %d does not exist", b.ID)
	}
	m.books[b.ID] = *b
	return nil
}

func (m *MemoryRepo) DeleteBook(ctx context.Context, b Book) error {
	if b.ID == 0 {
		return fmt.Errorf("memory: book with unassigned ID passed into DeleteBook")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[b.ID]; !ok {
		return ErrNotFound
	}
	delete(m.books, b.ID)
	for id, c := range m.comments {
		if c.BookID == b.ID {
			delete(m.comments, id)
		}
	}
	return nil
}

func (m *MemoryRepo) SaveComment(ctx context.Context, c *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[c.BookID]; !ok {
		return ErrInvalidReference
	}
	if c.ID == 0 {
		c.ID = m.nextCommentID
		m.nextCommentID++
	}
	stored := *c
	stored.Page = copyPage(c.Page)
	m.comments[c.ID] = stored
	return nil
}

func (m *MemoryRepo) FindCommentsByBookID(ctx context.Context, bookID int64) ([]Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Comment
	for _, c := range m.comments {
		if c.BookID == bookID {
			c.Page = copyPage(c.Page)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Ping satisfies the readiness check.
func (m *MemoryRepo) Ping(ctx context.Context) error { return nil }

type booksByCreation struct {
	books []Book
	desc  bool
}

func (s booksByCreation) Len() int      { return len(s.books) }
func (s booksByCreation) Swap(i, j int) { s.books[i], s.books[j] = s.books[j], s.books[i] }
func (s booksByCreation) Less(i, j int) bool {
	a, b := s.books[i], s.books[j]
	if s.desc {
		a, b = b, a
	}
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
