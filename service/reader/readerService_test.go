package reader

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Lakhyajit-96/university-library/model"
	bookrepo "github.com/Lakhyajit-96/university-library/repository/book"
)

type mockBooks struct {
	detailFn  func(ctx context.Context, id string) (*bookrepo.Book, error)
	contentFn func(ctx context.Context, id string) (string, error)
}

func (m *mockBooks) Detail(ctx context.Context, id string) (*bookrepo.Book, error) {
	return m.detailFn(ctx, id)
}
func (m *mockBooks) Content(ctx context.Context, id string) (string, error) {
	return m.contentFn(ctx, id)
}

type mockRecords struct {
	activeFn func(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error)
}

func (m *mockRecords) ActiveRecord(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error) {
	return m.activeFn(ctx, userID, bookID)
}

func theBook() *bookrepo.Book {
	return &bookrepo.Book{ID: "book-1", Title: "The Go Programming Language", Author: "Donovan & Kernighan", Genre: "Programming"}
}

func record(snapshot model.SnapshotStatus) *model.BorrowRecord {
	return &model.BorrowRecord{
		ID:                 "rec-1",
		UserID:             "user-1",
		BookID:             "book-1",
		BorrowDate:         time.Now().Add(-24 * time.Hour),
		DueDate:            time.Now().Add(6 * 24 * time.Hour),
		Status:             model.BorrowActive,
		VerificationStatus: snapshot,
	}
}

func TestCheckAccess_Granted(t *testing.T) {
	books := &mockBooks{
		detailFn:  func(ctx context.Context, id string) (*bookrepo.Book, error) { return theBook(), nil },
		contentFn: func(ctx context.Context, id string) (string, error) { return "# Chapter 1", nil },
	}
	records := &mockRecords{
		activeFn: func(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error) {
			return record(model.SnapshotVerified), nil
		},
	}
	svc := New(books, records)

	out, err := svc.CheckAccess(context.Background(), "user-1", "book-1")
	require.NoError(t, err)
	require.Equal(t, "book-1", out.Book.ID)
	require.Equal(t, "# Chapter 1", out.Content)
}

func TestCheckAccess_BookMissing(t *testing.T) {
	books := &mockBooks{
		detailFn: func(ctx context.Context, id string) (*bookrepo.Book, error) { return nil, sql.ErrNoRows },
	}
	svc := New(books, &mockRecords{})

	_, err := svc.CheckAccess(context.Background(), "user-1", "ghost")
	require.Equal(t, ErrBookNotFound, Code(err))
}

func TestCheckAccess_NotBorrowed(t *testing.T) {
	books := &mockBooks{
		detailFn: func(ctx context.Context, id string) (*bookrepo.Book, error) { return theBook(), nil },
	}
	records := &mockRecords{
		activeFn: func(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(books, records)

	_, err := svc.CheckAccess(context.Background(), "user-1", "book-1")
	require.Equal(t, ErrNotBorrowed, Code(err))
}

// A record snapshotted UNVERIFIED stays locked even after the user gets
// verified: the gate never consults the live user status.
func TestCheckAccess_UnverifiedSnapshotDeniesForever(t *testing.T) {
	books := &mockBooks{
		detailFn: func(ctx context.Context, id string) (*bookrepo.Book, error) { return theBook(), nil },
		contentFn: func(ctx context.Context, id string) (string, error) {
			t.Fatal("content must not be fetched for unverified snapshot")
			return "", nil
		},
	}
	records := &mockRecords{
		activeFn: func(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error) {
			return record(model.SnapshotUnverified), nil
		},
	}
	svc := New(books, records)

	_, err := svc.CheckAccess(context.Background(), "user-1", "book-1")
	require.Equal(t, ErrVerificationRequired, Code(err))
}
