package borrow

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Lakhyajit-96/university-library/model"
)

type mockRepo struct {
	lockUserFn      func(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error)
	bookExistsFn    func(ctx context.Context, tx *sql.Tx, bookID string) (bool, error)
	decrementFn     func(ctx context.Context, tx *sql.Tx, bookID string) (bool, error)
	incrementFn     func(ctx context.Context, tx *sql.Tx, bookID string) error
	hasActiveFn     func(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error)
	insertFn        func(ctx context.Context, tx *sql.Tx, rec *model.BorrowRecord) error
	getForUpdateFn  func(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error)
	markReturnedFn  func(ctx context.Context, tx *sql.Tx, recordID string, returnedAt time.Time) error
	activeRecordFn  func(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error)
	listHistoryFn   func(ctx context.Context, userID string) ([]HistoryRow, error)
	incrementCalled int
	insertCalled    int
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) LockUserVerification(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error) {
	return m.lockUserFn(ctx, tx, userID)
}
func (m *mockRepo) BookExists(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
	return m.bookExistsFn(ctx, tx, bookID)
}
func (m *mockRepo) DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
	return m.decrementFn(ctx, tx, bookID)
}
func (m *mockRepo) IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID string) error {
	m.incrementCalled++
	if m.incrementFn == nil {
		return nil
	}
	return m.incrementFn(ctx, tx, bookID)
}
func (m *mockRepo) HasActiveRecord(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error) {
	return m.hasActiveFn(ctx, tx, userID, bookID)
}
func (m *mockRepo) InsertRecord(ctx context.Context, tx *sql.Tx, rec *model.BorrowRecord) error {
	m.insertCalled++
	if m.insertFn == nil {
		return nil
	}
	return m.insertFn(ctx, tx, rec)
}
func (m *mockRepo) GetRecordForUpdate(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error) {
	return m.getForUpdateFn(ctx, tx, recordID)
}
func (m *mockRepo) MarkReturned(ctx context.Context, tx *sql.Tx, recordID string, returnedAt time.Time) error {
	if m.markReturnedFn == nil {
		return nil
	}
	return m.markReturnedFn(ctx, tx, recordID, returnedAt)
}
func (m *mockRepo) ActiveRecord(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error) {
	return m.activeRecordFn(ctx, userID, bookID)
}
func (m *mockRepo) ListUserHistory(ctx context.Context, userID string) ([]HistoryRow, error) {
	return m.listHistoryFn(ctx, userID)
}

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// --- Borrow ---

func TestBorrow_Success_SnapshotsVerified(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &mockRepo{
		lockUserFn: func(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error) {
			return model.Verified, nil
		},
		hasActiveFn: func(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error) {
			return false, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
			return true, nil
		},
	}
	svc := NewWithClock(db, m, clock)

	rec, err := svc.Borrow(context.Background(), "user-1", "book-1")
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	require.Equal(t, model.BorrowActive, rec.Status)
	require.Equal(t, model.SnapshotVerified, rec.VerificationStatus)
	require.Equal(t, fixedNow, rec.BorrowDate)
	require.Equal(t, fixedNow.Add(7*24*time.Hour), rec.DueDate)
	require.Nil(t, rec.ReturnDate)
	require.Equal(t, 1, m.insertCalled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_PendingSnapshotsUnverified(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := &mockRepo{
		lockUserFn: func(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error) {
			return model.PendingVerification, nil
		},
		hasActiveFn: func(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error) {
			return false, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
			return true, nil
		},
	}
	svc := NewWithClock(db, m, clock)

	rec, err := svc.Borrow(context.Background(), "user-1", "book-1")
	require.NoError(t, err)
	require.Equal(t, model.SnapshotUnverified, rec.VerificationStatus)
}

func TestBorrow_UserNotFound(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		lockUserFn: func(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error) {
			return "", sql.ErrNoRows
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.Borrow(context.Background(), "ghost", "book-1")
	require.Error(t, err)
	require.Equal(t, ErrUserNotFound, Code(err))
	require.Zero(t, m.insertCalled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_NoCopies(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		lockUserFn: func(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error) {
			return model.Verified, nil
		},
		hasActiveFn: func(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error) {
			return false, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
			return false, nil
		},
		bookExistsFn: func(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
			return true, nil
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.Borrow(context.Background(), "user-1", "book-1")
	require.Error(t, err)
	require.Equal(t, ErrBookUnavailable, Code(err))
	require.Zero(t, m.insertCalled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrow_BookMissing(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		lockUserFn: func(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error) {
			return model.Verified, nil
		},
		hasActiveFn: func(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error) {
			return false, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
			return false, nil
		},
		bookExistsFn: func(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
			return false, nil
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.Borrow(context.Background(), "user-1", "ghost")
	require.Equal(t, ErrBookNotFound, Code(err))
}

func TestBorrow_DuplicateActiveRecordRejected(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		lockUserFn: func(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error) {
			return model.Verified, nil
		},
		hasActiveFn: func(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error) {
			return true, nil
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.Borrow(context.Background(), "user-1", "book-1")
	require.Equal(t, ErrAlreadyBorrowed, Code(err))
	require.Zero(t, m.insertCalled)
}

func TestBorrow_InsertFailureRollsBack(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		lockUserFn: func(ctx context.Context, tx *sql.Tx, userID string) (model.VerificationStatus, error) {
			return model.Verified, nil
		},
		hasActiveFn: func(ctx context.Context, tx *sql.Tx, userID, bookID string) (bool, error) {
			return false, nil
		},
		decrementFn: func(ctx context.Context, tx *sql.Tx, bookID string) (bool, error) {
			return true, nil
		},
		insertFn: func(ctx context.Context, tx *sql.Tx, rec *model.BorrowRecord) error {
			return errors.New("store unavailable")
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.Borrow(context.Background(), "user-1", "book-1")
	require.Error(t, err)
	require.Equal(t, ErrCode(""), Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

// --- Return ---

func activeRec(user, book string) *model.BorrowRecord {
	return &model.BorrowRecord{
		ID:                 "rec-1",
		UserID:             user,
		BookID:             book,
		BorrowDate:         fixedNow.Add(-48 * time.Hour),
		DueDate:            fixedNow.Add(5 * 24 * time.Hour),
		Status:             model.BorrowActive,
		VerificationStatus: model.SnapshotVerified,
	}
}

func TestReturn_Success(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var markedAt time.Time
	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error) {
			return activeRec("user-1", "book-1"), nil
		},
		markReturnedFn: func(ctx context.Context, tx *sql.Tx, recordID string, returnedAt time.Time) error {
			markedAt = returnedAt
			return nil
		},
	}
	svc := NewWithClock(db, m, clock)

	returnedAt, err := svc.Return(context.Background(), "user-1", "rec-1")
	require.NoError(t, err)
	require.Equal(t, fixedNow, returnedAt)
	require.Equal(t, fixedNow, markedAt)
	require.Equal(t, 1, m.incrementCalled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_NotOwner(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error) {
			return activeRec("someone-else", "book-1"), nil
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.Return(context.Background(), "user-1", "rec-1")
	require.Equal(t, ErrRecordNotFound, Code(err))
	require.Zero(t, m.incrementCalled)
}

func TestReturn_AlreadyReturnedDoesNotIncrementTwice(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	ret := fixedNow.Add(-time.Hour)
	rec := activeRec("user-1", "book-1")
	rec.Status = model.BorrowReturned
	rec.ReturnDate = &ret

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error) {
			return rec, nil
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.Return(context.Background(), "user-1", "rec-1")
	require.Equal(t, ErrRecordNotFound, Code(err))
	require.Zero(t, m.incrementCalled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_RecordMissing(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.Return(context.Background(), "user-1", "ghost")
	require.Equal(t, ErrRecordNotFound, Code(err))
}

func TestReturn_IncrementFailureRollsBackRecordUpdate(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &mockRepo{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, recordID string) (*model.BorrowRecord, error) {
			return activeRec("user-1", "book-1"), nil
		},
		incrementFn: func(ctx context.Context, tx *sql.Tx, bookID string) error {
			return errors.New("store unavailable")
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.Return(context.Background(), "user-1", "rec-1")
	require.Error(t, err)
	require.Equal(t, ErrCode(""), Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

// --- ActiveRecord ---

func TestActiveRecord_MapsNoRows(t *testing.T) {
	db, _ := newDB(t)
	m := &mockRepo{
		activeRecordFn: func(ctx context.Context, userID, bookID string) (*model.BorrowRecord, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewWithClock(db, m, clock)

	_, err := svc.ActiveRecord(context.Background(), "user-1", "book-1")
	require.Equal(t, ErrRecordNotFound, Code(err))
}
