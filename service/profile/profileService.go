package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Lakhyajit-96/university-library/model"
	userrepo "github.com/Lakhyajit-96/university-library/repository/user"
	borrowsvc "github.com/Lakhyajit-96/university-library/service/borrow"
)

// errors used by controllers

type ErrCode string

const (
	ErrUserNotFound    ErrCode = "USER_NOT_FOUND"
	ErrAlreadyPending  ErrCode = "ALREADY_PENDING"
	ErrAlreadyVerified ErrCode = "ALREADY_VERIFIED"
	ErrNotPending      ErrCode = "NOT_PENDING"
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

// BorrowedBook is a history row decorated with the display status computed
// at read time.
type BorrowedBook struct {
	borrowsvc.HistoryRow
	DisplayStatus borrowsvc.DisplayStatus `json:"display_status"`
	DisplayText   string                  `json:"display_text"`
}

type Records interface {
	ListUserHistory(ctx context.Context, userID string) ([]borrowsvc.HistoryRow, error)
}

type Service interface {
	Me(ctx context.Context, userID string) (*model.User, error)
	Update(ctx context.Context, userID string, upd userrepo.ProfileUpdate) error
	UpdatePicture(ctx context.Context, userID, url string) error

	// MyBooks joins the user's borrow history with each record's derived
	// display status. The derivation happens on every call since it
	// depends on the clock.
	MyBooks(ctx context.Context, userID string) ([]BorrowedBook, error)

	// SubmitVerification moves an UNVERIFIED or REJECTED user to
	// PENDING_VERIFICATION.
	SubmitVerification(ctx context.Context, userID string) error

	// DecideVerification resolves a pending request to VERIFIED or
	// REJECTED. Records snapshotted before the decision keep their
	// original status.
	DecideVerification(ctx context.Context, userID string, approve bool) error
}

type service struct {
	ur  userrepo.Repo
	br  Records
	now func() time.Time
}

func New(ur userrepo.Repo, br Records) Service {
	return &service{ur: ur, br: br, now: time.Now}
}

func NewWithClock(ur userrepo.Repo, br Records, now func() time.Time) Service {
	return &service{ur: ur, br: br, now: now}
}

func (s *service) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Update(ctx context.Context, userID string, upd userrepo.ProfileUpdate) error {
	return s.ur.UpdateProfile(ctx, userID, upd)
}

func (s *service) UpdatePicture(ctx context.Context, userID, url string) error {
	return s.ur.UpdatePicture(ctx, userID, url)
}

func (s *service) MyBooks(ctx context.Context, userID string) ([]BorrowedBook, error) {
	rows, err := s.br.ListUserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]BorrowedBook, 0, len(rows))
	for _, row := range rows {
		st, text := borrowsvc.Display(row.Status, row.DueDate, row.ReturnDate, now)
		out = append(out, BorrowedBook{
			HistoryRow:    row,
			DisplayStatus: st,
			DisplayText:   text,
		})
	}
	return out, nil
}

func (s *service) SubmitVerification(ctx context.Context, userID string) error {
	ok, err := s.ur.SetVerificationStatus(ctx, userID,
		[]model.VerificationStatus{model.Unverified, model.Rejected},
		model.PendingVerification)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrUserNotFound)
		}
		return err
	}
	switch u.VerificationStatus {
	case model.PendingVerification:
		return makeErr(ErrAlreadyPending)
	case model.Verified:
		return makeErr(ErrAlreadyVerified)
	default:
		return makeErr(ErrNotPending)
	}
}

func (s *service) DecideVerification(ctx context.Context, userID string, approve bool) error {
	to := model.Rejected
	if approve {
		to = model.Verified
	}
	ok, err := s.ur.SetVerificationStatus(ctx, userID,
		[]model.VerificationStatus{model.PendingVerification}, to)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	if _, err := s.ur.ByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrUserNotFound)
		}
		return err
	}
	return makeErr(ErrNotPending)
}
