package book

import (
	"fmt"
	"time"
)

// BookReadView is the full projection of a book with its comments.
type BookReadView struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Price     int               `json:"price"`
	CreatedAt time.Time         `json:"created_at"`
	Comments  []CommentListView `json:"comments"`
}

// BookEditView is what an editor needs to prefill a form.
type BookEditView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// BookListView is a search result row.
type BookListView struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// CommentListView is a comment as shown under a book.
type CommentListView struct {
	ID             int64     `json:"id"`
	Comment        string    `json:"comment"`
	Page           *int      `json:"page,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	DisplayComment string    `json:"display_comment"`
}

// CommentView is returned after a comment is created.
type CommentView struct {
	ID      int64  `json:"id"`
	BookID  int64  `json:"book_id"`
	Comment string `json:"comment"`
	Page    *int   `json:"page,omitempty"`
}

// Assemblers run only after a successful fetch, so a nil source is a bug.
func mustHave[T any](v *T, what string) {
	if v == nil {
		panic(fmt.Sprintf("book: cannot assemble view from nil %s", what))
	}
}

// NewBookReadView builds the full read view, comments included in the given order.
func NewBookReadView(b *Book, comments []Comment) BookReadView {
	mustHave(b, "book")
	views := make([]CommentListView, 0, len(comments))
	for i := range comments {
		views = append(views, NewCommentListView(&comments[i]))
	}
	return BookReadView{
		ID:        b.ID,
		Title:     b.Title,
		Price:     b.Price,
		CreatedAt: b.CreatedAt,
		Comments:  views,
	}
}

// NewBookEditView exposes the fields an editor may change.
func NewBookEditView(b *Book) BookEditView {
	mustHave(b, "book")
	return BookEditView{
		ID:        b.ID,
		Title:     b.Title,
		Price:     b.Price,
		CreatedAt: b.CreatedAt,
	}
}

// NewBookListView is the search result row for b.
func NewBookListView(b *Book) BookListView {
	mustHave(b, "book")
	return BookListView{ID: b.ID, Title: b.Title}
}

// NewCommentListView renders a comment under its book, with DisplayComment filled in.
func NewCommentListView(c *Comment) CommentListView {
	mustHave(c, "comment")
	return CommentListView{
		ID:             c.ID,
		Comment:        c.Comment,
		Page:           c.Page,
		CreatedAt:      c.CreatedAt,
		DisplayComment: DisplayComment(c.Comment, c.Page),
	}
}

// NewCommentView is returned after a comment is created.
func NewCommentView(c *Comment) CommentView {
	mustHave(c, "comment")
	return CommentView{
		ID:      c.ID,
		BookID:  c.BookID,
		Comment: c.Comment,
		Page:    c.Page,
	}
}

// DisplayComment prefixes the text with "(p.N.) " when a page is known.
func DisplayComment(text string, page *int) string {
	if page == nil {
		return text
	}
	return fmt.Sprintf("(p.%d.) %s", *page, text)
}
