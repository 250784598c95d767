package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		title      VARCHAR(255) NOT NULL,
		price      INTEGER NOT NULL CHECK (price >= 100),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		book_id    INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		comment    VARCHAR(255) NOT NULL,
		page       INTEGER NULL CHECK (page IS NULL OR page > 0),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_book_id ON comments(book_id, created_at)`,
}

var _ Repository = &SQLiteRepo{}

// SQLiteRepo stores the catalog in a single SQLite file.
type SQLiteRepo struct {
	db *sql.DB
}

// NewSQLiteRepo opens (or creates) the database at path and applies the schema.
func NewSQLiteRepo(path string) (*SQLiteRepo, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Foreign keys are off by default in SQLite; cascade depends on them.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepo) FindBook(ctx context.Context, id int64) (Book, error) {
	var b Book
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, price, created_at FROM books WHERE id = ?`, id,
	).Scan(&b.ID, &b.Title, &b.Price, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *SQLiteRepo) FindBooks(ctx context.Context, filter TitleFilter, page PageRequest) ([]Book, error) {
	// instr keeps containment case-sensitive; LIKE would fold ASCII case.
	match := "instr(title, ?1) > 0"
	if filter.CaseInsensitive {
		match = "instr(lower(title), lower(?1)) > 0"
	}

	order := "ASC"
	if page.Direction == Desc {
		order = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, title, price, created_at
		FROM books
		WHERE (?1 = '' OR %s)
		ORDER BY created_at %s, id %s
		LIMIT ?2 OFFSET ?3`,
		match, order, order)

	rows, err := r.db.QueryContext(ctx, query, filter.Contains, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Price, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) SaveBook(ctx context.Context, b *Book) error {
	if b.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO books (title, price, created_at) VALUES (?, ?, ?)`,
			b.Title, b.Price, b.CreatedAt.UTC())
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		b.ID = id
		return nil
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET title = ?, price = ?, created_at = ? WHERE id = ?`,
		b.Title, b.Price, b.CreatedAt.UTC(), b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) DeleteBook(ctx context.Context, b Book) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) SaveComment(ctx context.Context, c *Comment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (book_id, comment, page, created_at) VALUES (?, ?, ?, ?)`,
		c.BookID, c.Comment, c.Page, c.CreatedAt.UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return fmt.Errorf("%w: book %d", ErrInvalidReference, c.BookID)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *SQLiteRepo) FindCommentsByBookID(ctx context.Context, bookID int64) ([]Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, book_id, comment, page, created_at
		FROM comments
		WHERE book_id = ?
		ORDER BY created_at ASC, id ASC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var (
			c    Comment
			page sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.BookID, &c.Comment, &page, &c.CreatedAt); err != nil {
			return nil, err
		}
		if page.Valid {
			p := int(page.Int64)
			c.Page = &p
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
