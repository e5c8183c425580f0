package profile

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Lakhyajit-96/university-library/model"
	userrepo "github.com/Lakhyajit-96/university-library/repository/user"
	borrowsvc "github.com/Lakhyajit-96/university-library/service/borrow"
)

type mockUsers struct {
	byIDFn      func(ctx context.Context, id string) (*model.User, error)
	updateFn    func(ctx context.Context, id string, upd userrepo.ProfileUpdate) error
	pictureFn   func(ctx context.Context, id string, url string) error
	setStatusFn func(ctx context.Context, id string, from []model.VerificationStatus, to model.VerificationStatus) (bool, error)
}

var _ userrepo.Repo = (*mockUsers)(nil)

func (m *mockUsers) ByID(ctx context.Context, id string) (*model.User, error) {
	return m.byIDFn(ctx, id)
}
func (m *mockUsers) UpdateProfile(ctx context.Context, id string, upd userrepo.ProfileUpdate) error {
	return m.updateFn(ctx, id, upd)
}
func (m *mockUsers) UpdatePicture(ctx context.Context, id string, url string) error {
	return m.pictureFn(ctx, id, url)
}
func (m *mockUsers) SetVerificationStatus(ctx context.Context, id string, from []model.VerificationStatus, to model.VerificationStatus) (bool, error) {
	return m.setStatusFn(ctx, id, from, to)
}

type mockRecords struct {
	listFn func(ctx context.Context, userID string) ([]borrowsvc.HistoryRow, error)
}

func (m *mockRecords) ListUserHistory(ctx context.Context, userID string) ([]borrowsvc.HistoryRow, error) {
	return m.listFn(ctx, userID)
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestMe_NotFound(t *testing.T) {
	m := &mockUsers{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) { return nil, sql.ErrNoRows },
	}
	svc := NewWithClock(m, &mockRecords{}, clock)

	_, err := svc.Me(context.Background(), "ghost")
	require.Equal(t, ErrUserNotFound, Code(err))
}

func TestMyBooks_ComputesDisplayStatus(t *testing.T) {
	ret := fixedNow.Add(-5 * 24 * time.Hour)
	rows := []borrowsvc.HistoryRow{
		{RecordID: "r1", Title: "On Loan", Status: model.BorrowActive, DueDate: fixedNow.Add(3 * 24 * time.Hour)},
		{RecordID: "r2", Title: "Late", Status: model.BorrowActive, DueDate: fixedNow.Add(-3 * 24 * time.Hour)},
		{RecordID: "r3", Title: "Done", Status: model.BorrowReturned, DueDate: fixedNow.Add(-24 * time.Hour), ReturnDate: &ret},
	}
	br := &mockRecords{
		listFn: func(ctx context.Context, userID string) ([]borrowsvc.HistoryRow, error) { return rows, nil },
	}
	svc := NewWithClock(&mockUsers{}, br, clock)

	out, err := svc.MyBooks(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, out, 3)

	require.Equal(t, borrowsvc.DisplayBorrowed, out[0].DisplayStatus)
	require.Equal(t, "3 days left to due", out[0].DisplayText)

	require.Equal(t, borrowsvc.DisplayOverdue, out[1].DisplayStatus)
	require.Equal(t, "Overdue Return", out[1].DisplayText)

	require.Equal(t, borrowsvc.DisplayReturned, out[2].DisplayStatus)
	require.Equal(t, "Returned on Mar 05", out[2].DisplayText)
}

func TestSubmitVerification_FromUnverified(t *testing.T) {
	m := &mockUsers{
		setStatusFn: func(ctx context.Context, id string, from []model.VerificationStatus, to model.VerificationStatus) (bool, error) {
			require.Equal(t, model.PendingVerification, to)
			require.Contains(t, from, model.Unverified)
			require.Contains(t, from, model.Rejected)
			return true, nil
		},
	}
	svc := NewWithClock(m, &mockRecords{}, clock)

	require.NoError(t, svc.SubmitVerification(context.Background(), "user-1"))
}

func TestSubmitVerification_AlreadyPending(t *testing.T) {
	m := &mockUsers{
		setStatusFn: func(ctx context.Context, id string, from []model.VerificationStatus, to model.VerificationStatus) (bool, error) {
			return false, nil
		},
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, VerificationStatus: model.PendingVerification}, nil
		},
	}
	svc := NewWithClock(m, &mockRecords{}, clock)

	err := svc.SubmitVerification(context.Background(), "user-1")
	require.Equal(t, ErrAlreadyPending, Code(err))
}

func TestDecideVerification_ApproveRequiresPending(t *testing.T) {
	m := &mockUsers{
		setStatusFn: func(ctx context.Context, id string, from []model.VerificationStatus, to model.VerificationStatus) (bool, error) {
			require.Equal(t, []model.VerificationStatus{model.PendingVerification}, from)
			require.Equal(t, model.Verified, to)
			return true, nil
		},
	}
	svc := NewWithClock(m, &mockRecords{}, clock)

	require.NoError(t, svc.DecideVerification(context.Background(), "user-1", true))
}

func TestDecideVerification_NotPending(t *testing.T) {
	m := &mockUsers{
		setStatusFn: func(ctx context.Context, id string, from []model.VerificationStatus, to model.VerificationStatus) (bool, error) {
			return false, nil
		},
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, VerificationStatus: model.Unverified}, nil
		},
	}
	svc := NewWithClock(m, &mockRecords{}, clock)

	err := svc.DecideVerification(context.Background(), "user-1", false)
	require.Equal(t, ErrNotPending, Code(err))
}
