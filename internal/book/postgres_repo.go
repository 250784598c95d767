package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgForeignKeyViolation = "23503"

var _ Repository = &PostgresRepo{}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func (r *PostgresRepo) FindBook(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT id, title, price, created_at
		FROM books
		WHERE id = $1
	`
	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(&b.ID, &b.Title, &b.Price, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) FindBooks(ctx context.Context, filter TitleFilter, page PageRequest) ([]Book, error) {
	match := "strpos(title, $1) > 0"
	if filter.CaseInsensitive {
		match = "strpos(lower(title), lower($1)) > 0"
	}

	order := "ASC"
	if page.Direction == Desc {
		order = "DESC"
	}

	dataSQL := fmt.Sprintf(`
		SELECT id, title, price, created_at
		FROM books
		WHERE ($1::text = '' OR %s)
		ORDER BY created_at %s, id %s
		LIMIT $2 OFFSET $3`,
		match, order, order)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, dataSQL, filter.Contains, page.Limit(), page.Offset())
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

func (r *PostgresRepo) SaveBook(ctx context.Context, b *Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if b.ID == 0 {
		const insertSQL = `
			INSERT INTO books (title, price, created_at)
			VALUES ($1, $2, $3)
			RETURNING id`
		return r.db.QueryRow(timeoutCtx, insertSQL, b.Title, b.Price, b.CreatedAt).Scan(&b.ID)
	}

	const updateSQL = `
		UPDATE books
		SET title = $2, price = $3, created_at = $4
		WHERE id = $1`
	tag, err := r.db.Exec(timeoutCtx, updateSQL, b.ID, b.Title, b.Price, b.CreatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBook relies on ON DELETE CASCADE for the book's comments.
func (r *PostgresRepo) DeleteBook(ctx context.Context, b Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, b.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) SaveComment(ctx context.Context, c *Comment) error {
	const sql = `
		INSERT INTO comments (book_id, comment, page, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, c.BookID, c.Comment, c.Page, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%w: book %d", ErrInvalidReference, c.BookID)
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) FindCommentsByBookID(ctx context.Context, bookID int64) ([]Comment, error) {
	const query = `
		SELECT id, book_id, comment, page, created_at
		FROM comments
		WHERE book_id = $1
		ORDER BY created_at ASC, id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.BookID, &c.Comment, &c.Page, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
