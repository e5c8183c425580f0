// repository/borrow/repo.go
package borrow

import (
	"context"
	"database/sql"
	"time"

	"github.com/Lakhyajit-96/university-library/model"
)

// HistoryRow is one entry of a user's borrow history joined with its book.
type HistoryRow struct {
	RecordID           string               `json:"record_id"`
	BookID             string               `json:"book_id"`
	Title              string               `json:"title"`
	Author             string               `json:"author"`
	Genre              string               `json:"genre"`
	CoverColor         string               `json:"cover_color"`
	CoverURL           string               `json:"cover_url"`
	BorrowDate         time.Time            `json:"borrow_date"`
	DueDate            time.Time            `json:"due_date"`
	ReturnDate         *time.Time           `json:"return_date,omitempty"`
	Status             model.BorrowStatus   `json:"status"`
	VerificationStatus model.SnapshotStatus `json:"verification_status"`
}

type Repo interface {
	// Users
	LockUserVerification(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error)

	// Books
	BookExists(ctx context.Context, tx *sql.Tx, bookID string) (bool, error)
	DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID string) (bool, error)
	IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID string) error

	// Records
	HasActiveRecord(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error)
	InsertRecord(ctx context.Context, tx *sql.Tx, rec *model.BorrowRecord) error
	GetRecordForUpdate(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, recordID string, returnedAt time.Time) error

	// Reads outside the engine
	ActiveRecord(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error)
	ListUserHistory(ctx context.Context, userID string) ([]HistoryRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

// Users

// LockUserVerification takes the user's row lock for the duration of the
// transaction. Serializing on the user row closes the race between the
// duplicate-borrow check and the record insert for the same user.
func (r *repo) LockUserVerification(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error) {
	const q = `
			SELECT verification_status
			FROM users
			WHERE id = $1
			FOR UPDATE`
	var vs model.VerificationStatus
	err := tx.QueryRowContext(ctx, q, userID).Scan(&vs)
	return vs, err
}

// Books

func (r *repo) BookExists(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`
	var ok bool
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&ok)
	return ok, err
}

// DecrementAvailable takes one copy off the shelf. The guard keeps the
// counter from going negative: zero rows affected means no copy was free.
func (r *repo) DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
	const q = `
			UPDATE books
			SET available_copies = available_copies - 1
			WHERE id = $1
			AND available_copies > 0`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// IncrementAvailable puts a copy back, capped at total_copies.
func (r *repo) IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID string) error {
	const q = `
			UPDATE books
			SET available_copies = available_copies + 1
			WHERE id = $1
			AND available_copies < total_copies`
	_, err := tx.ExecContext(ctx, q, bookID)
	return err
}

// Records

func (r *repo) HasActiveRecord(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error) {
	const q = `
			SELECT EXISTS (
				SELECT 1 FROM borrow_records
				WHERE user_id = $1 AND book_id = $2 AND status = 'BORROWED'
			)`
	var ok bool
	err := tx.QueryRowContext(ctx, q, userID, bookID).Scan(&ok)
	return ok, err
}

func (r *repo) InsertRecord(ctx context.Context, tx *sql.Tx, rec *model.BorrowRecord) error {
	const q = `
		INSERT INTO borrow_records (id, user_id, book_id, borrow_date, due_date, status, verification_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.ExecContext(ctx, q,
		rec.ID, rec.UserID, rec.BookID, rec.BorrowDate, rec.DueDate, rec.Status, rec.VerificationStatus)
	return err
}

func (r *repo) GetRecordForUpdate(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error) {
	const q = `
		SELECT id, user_id, book_id, borrow_date, due_date, return_date, status, verification_status
		FROM borrow_records
		WHERE id = $1
		FOR UPDATE`
	rec := &model.BorrowRecord{}
	err := tx.QueryRowContext(ctx, q, recordID).Scan(
		&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowDate, &rec.DueDate,
		&rec.ReturnDate, &rec.Status, &rec.VerificationStatus)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repo) MarkReturned(ctx context.Context, tx *sql.Tx, recordID string, returnedAt time.Time) error {
	const q = `
		UPDATE borrow_records
		SET status = 'RETURNED',
			return_date = $2
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, recordID, returnedAt)
	return err
}

// Reads outside the engine

func (r *repo) ActiveRecord(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error) {
	const q = `
		SELECT id, user_id, book_id, borrow_date, due_date, return_date, status, verification_status
		FROM borrow_records
		WHERE user_id = $1 AND book_id = $2 AND status = 'BORROWED'
		LIMIT 1`
	rec := &model.BorrowRecord{}
	err := r.db.QueryRowContext(ctx, q, userID, bookID).Scan(
		&rec.ID, &rec.UserID, &rec.BookID, &rec.BorrowDate, &rec.DueDate,
		&rec.ReturnDate, &rec.Status, &rec.VerificationStatus)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repo) ListUserHistory(ctx context.Context, userID string) ([]HistoryRow, error) {
	const q = `
			SELECT
			r.id                  AS record_id,
			r.book_id             AS book_id,
			b.title               AS title,
			b.author              AS author,
			b.genre               AS genre,
			b.cover_color         AS cover_color,
			b.cover_url           AS cover_url,
			r.borrow_date         AS borrow_date,
			r.due_date            AS due_date,
			r.return_date         AS return_date,
			r.status              AS status,
			r.verification_status AS verification_status
			FROM borrow_records r
			JOIN books b ON b.id = r.book_id
			WHERE r.user_id = $1
			ORDER BY r.borrow_date DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.RecordID, &h.BookID, &h.Title, &h.Author, &h.Genre,
			&h.CoverColor, &h.CoverURL, &h.BorrowDate, &h.DueDate,
			&h.ReturnDate, &h.Status, &h.VerificationStatus,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
