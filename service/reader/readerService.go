package reader

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Lakhyajit-96/university-library/model"
	bookrepo "github.com/Lakhyajit-96/university-library/repository/book"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound         ErrCode = "BOOK_NOT_FOUND"
	ErrNotBorrowed          ErrCode = "NOT_BORROWED"
	ErrVerificationRequired ErrCode = "VERIFICATION_REQUIRED"
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

// Books is the slice of the catalog the gate needs.
type Books interface {
	Detail(ctx context.Context, id string) (*bookrepo.Book, error)
	Content(ctx context.Context, id string) (string, error)
}

// Records looks up active borrow records.
type Records interface {
	ActiveRecord(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error)
}

// ReadableBook is a book plus its full content, handed out only after the
// access checks pass.
type ReadableBook struct {
	Book    bookrepo.Book `json:"book"`
	Content string        `json:"content"`
}

type Service interface {
	// CheckAccess decides whether the user may read the book's content:
	// the book must exist, the user must hold an active borrow record for
	// it, and that record's snapshotted verification status must be
	// VERIFIED. The live user status is deliberately not consulted, so
	// verification changes after borrowing never alter access to books
	// already on loan.
	CheckAccess(ctx context.Context, userID, bookID string) (*ReadableBook, error)
}

type service struct {
	books   Books
	records Records
}

func New(books Books, records Records) Service {
	return &service{books: books, records: records}
}

func (s *service) CheckAccess(ctx context.Context, userID, bookID string) (*ReadableBook, error) {
	book, err := s.books.Detail(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}

	rec, err := s.records.ActiveRecord(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotBorrowed)
		}
		return nil, err
	}

	if rec.VerificationStatus != model.SnapshotVerified {
		return nil, makeErr(ErrVerificationRequired)
	}

	content, err := s.books.Content(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &ReadableBook{Book: *book, Content: content}, nil
}
