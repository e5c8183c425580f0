package userrepo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Lakhyajit-96/university-library/model"
)

// ProfileUpdate carries the editable profile fields. Nil means leave as is.
type ProfileUpdate struct {
	Department    *string
	DateOfBirth   *string
	ContactNumber *string
}

type Repo interface {
	ByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error
	UpdatePicture(ctx context.Context, id string, url string) error
	SetVerificationStatus(ctx context.Context, id string, from []model.VerificationStatus, to model.VerificationStatus) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) ByID(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, full_name, email, university_id, university_card, password_hash,
               profile_picture, department, date_of_birth, contact_number,
               verification_status, created_at
        FROM users
        WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.UniversityID, &u.UniversityCard,
		&u.PasswordHash, &u.ProfilePicture, &u.Department, &u.DateOfBirth,
		&u.ContactNumber, &u.VerificationStatus, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error {
	const q = `
		UPDATE users
		SET department     = COALESCE($2, department),
			date_of_birth  = COALESCE($3, date_of_birth),
			contact_number = COALESCE($4, contact_number)
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, upd.Department, upd.DateOfBirth, upd.ContactNumber)
	return err
}

func (r *repo) UpdatePicture(ctx context.Context, id string, url string) error {
	const q = `
		UPDATE users
		SET profile_picture = $2
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, url)
	return err
}

// SetVerificationStatus transitions the status only when the current value is
// one of `from`. Zero rows affected means the user was absent or not in an
// allowed state; the caller decides which.
func (r *repo) SetVerificationStatus(ctx context.Context, id string, from []model.VerificationStatus, to model.VerificationStatus) (bool, error) {
	const q = `
		UPDATE users
		SET verification_status = $2
		WHERE id = $1
		AND verification_status = ANY(string_to_array($3, ','))`
	states := make([]string, 0, len(from))
	for _, s := range from {
		states = append(states, string(s))
	}
	res, err := r.db.ExecContext(ctx, q, id, to, strings.Join(states, ","))
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
