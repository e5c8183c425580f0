package borrow

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Lakhyajit-96/university-library/model"
	borrowrepo "github.com/Lakhyajit-96/university-library/repository/borrow"
)

// errors used by controllers

type ErrCode string

const (
	ErrUserNotFound    ErrCode = "USER_NOT_FOUND"
	ErrBookNotFound    ErrCode = "BOOK_NOT_FOUND"
	ErrBookUnavailable ErrCode = "BOOK_UNAVAILABLE"
	ErrAlreadyBorrowed ErrCode = "ALREADY_BORROWED"
	ErrRecordNotFound  ErrCode = "RECORD_NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// loanPeriod is how long a borrowed book may be kept.
const loanPeriod = 7 * 24 * time.Hour

// HistoryRow = repository shape
type HistoryRow = borrowrepo.HistoryRow

type Repo interface {
	LockUserVerification(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error)

	BookExists(ctx context.Context, tx *sql.Tx, bookID string) (bool, error)
	DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID string) (bool, error)
	IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID string) error

	HasActiveRecord(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error)
	InsertRecord(ctx context.Context, tx *sql.Tx, rec *model.BorrowRecord) error
	GetRecordForUpdate(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, recordID string, returnedAt time.Time) error

	ActiveRecord(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error)
	ListUserHistory(ctx context.Context, userID string) ([]HistoryRow, error)
}

type Service interface {
	// Borrow takes one available copy off the shelf and opens a record,
	// snapshotting the user's verification status at borrow time.
	Borrow(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error)

	// Return closes an active record owned by the user and frees the copy.
	Return(ctx context.Context, userID, recordID string) (time.Time, error)

	// ActiveRecord looks up the open record for (user, book), if any.
	ActiveRecord(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error)

	// MyHistory lists a user's borrow records, newest first.
	MyHistory(ctx context.Context, userID string) ([]HistoryRow, error)
}

// ----- Service implementation -----

type service struct {
	db  *sql.DB
	r   Repo
	now func() time.Time
}

func New(db *sql.DB, r Repo) Service {
	return &service{db: db, r: r, now: time.Now}
}

// NewWithClock injects the clock for deterministic tests.
func NewWithClock(db *sql.DB, r Repo, now func() time.Time) Service {
	return &service{db: db, r: r, now: now}
}

// Borrow runs the whole borrow as one transaction: either the record exists
// and the counter is decremented, or neither happened.
func (s *service) Borrow(ctx context.Context, userID, bookID string) (rec *model.BorrowRecord, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Locking the user row serializes concurrent borrows by the same user,
	// so the duplicate check below cannot race with the insert.
	liveStatus, err := s.r.LockUserVerification(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	active, err := s.r.HasActiveRecord(ctx, tx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, makeErr(ErrAlreadyBorrowed)
	}

	ok, err := s.r.DecrementAvailable(ctx, tx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Guard rejected: the book is absent or out of copies.
		exists, perr := s.r.BookExists(ctx, tx, bookID)
		if perr != nil {
			return nil, perr
		}
		if !exists {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, makeErr(ErrBookUnavailable)
	}

	// Anything short of a fully verified user is snapshotted UNVERIFIED.
	snapshot := model.SnapshotUnverified
	if liveStatus == model.Verified {
		snapshot = model.SnapshotVerified
	}

	borrowedAt := s.now().UTC()
	rec = &model.BorrowRecord{
		ID:                 uuid.NewString(),
		UserID:             userID,
		BookID:             bookID,
		BorrowDate:         borrowedAt,
		DueDate:            borrowedAt.Add(loanPeriod),
		Status:             model.BorrowActive,
		VerificationStatus: snapshot,
	}
	if err = s.r.InsertRecord(ctx, tx, rec); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Return marks the record returned and restores the copy in one transaction.
// An absent, foreign or already-returned record all come back as
// ErrRecordNotFound so callers cannot probe other users' records.
func (s *service) Return(ctx context.Context, userID, recordID string) (returnedAt time.Time, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rec, err := s.r.GetRecordForUpdate(ctx, tx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, makeErr(ErrRecordNotFound)
		}
		return time.Time{}, err
	}
	if rec.UserID != userID || rec.Status != model.BorrowActive {
		return time.Time{}, makeErr(ErrRecordNotFound)
	}

	returnedAt = s.now().UTC()
	if err = s.r.MarkReturned(ctx, tx, recordID, returnedAt); err != nil {
		return time.Time{}, err
	}
	if err = s.r.IncrementAvailable(ctx, tx, rec.BookID); err != nil {
		return time.Time{}, err
	}
	if err = tx.Commit(); err != nil {
		return time.Time{}, err
	}
	return returnedAt, nil
}

func (s *service) ActiveRecord(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error) {
	rec, err := s.r.ActiveRecord(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrRecordNotFound)
		}
		return nil, err
	}
	return rec, nil
}

func (s *service) MyHistory(ctx context.Context, userID string) ([]HistoryRow, error) {
	return s.r.ListUserHistory(ctx, userID)
}
