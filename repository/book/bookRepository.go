package bookrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Lakhyajit-96/university-library/model"
)

type Book = model.Book

// ListFilter narrows the catalog listing. Query matches title, author and
// genre case-insensitively; Genre is an exact filter.
type ListFilter struct {
	Query  string
	Genre  string
	Limit  int
	Offset int
}

type Repo interface {
	CreateBook(ctx context.Context, b *Book) error
	List(ctx context.Context, f ListFilter) ([]Book, int, error)
	Detail(ctx context.Context, id string) (*Book, error)
	Content(ctx context.Context, id string) (string, error)
	Similar(ctx context.Context, id string, limit int) ([]Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const bookCols = `id, title, author, genre, rating, total_copies, available_copies,
       description, cover_color, cover_url, video_url, summary, created_at`

func (r *repo) CreateBook(ctx context.Context, b *Book) error {
	if b.TotalCopies <= 0 {
		return errors.New("total_copies must be > 0")
	}
	const q = `
INSERT INTO books (title, author, genre, rating, total_copies, available_copies,
                   description, cover_color, cover_url, video_url, summary, content)
VALUES ($1,$2,$3,$4,$5,$5,$6,$7,$8,$9,$10,$11)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.Genre, b.Rating, b.TotalCopies,
		b.Description, b.CoverColor, b.CoverURL, b.VideoURL, b.Summary, b.Content,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) List(ctx context.Context, f ListFilter) ([]Book, int, error) {
	const q = `
	SELECT ` + bookCols + `
	FROM books
	WHERE ($1 = '' OR title ILIKE '%'||$1||'%' OR author ILIKE '%'||$1||'%' OR genre ILIKE '%'||$1||'%')
	  AND ($2 = '' OR genre = $2)
	ORDER BY created_at DESC, id DESC
	LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, q, f.Query, f.Genre, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := scanBook(rows, &b); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	const qc = `
	SELECT COUNT(*)
	FROM books
	WHERE ($1 = '' OR title ILIKE '%'||$1||'%' OR author ILIKE '%'||$1||'%' OR genre ILIKE '%'||$1||'%')
	  AND ($2 = '' OR genre = $2)`
	var total int
	if err := r.db.QueryRowContext(ctx, qc, f.Query, f.Genre).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repo) Detail(ctx context.Context, id string) (*Book, error) {
	const q = `SELECT ` + bookCols + ` FROM books WHERE id = $1`
	var b Book
	if err := scanBook(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) Content(ctx context.Context, id string) (string, error) {
	const q = `SELECT COALESCE(content, '') FROM books WHERE id = $1`
	var content string
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&content); err != nil {
		return "", err
	}
	return content, nil
}

func (r *repo) Similar(ctx context.Context, id string, limit int) ([]Book, error) {
	const q = `
	SELECT ` + bookCols + `
	FROM books
	WHERE genre = (SELECT genre FROM books WHERE id = $1)
	  AND id <> $1
	ORDER BY rating DESC, created_at DESC
	LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanBook(s scanner, b *Book) error {
	return s.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Rating,
		&b.TotalCopies, &b.AvailableCopies, &b.Description, &b.CoverColor,
		&b.CoverURL, &b.VideoURL, &b.Summary, &b.CreatedAt)
}
