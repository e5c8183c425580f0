package auth

import (
	"context"
	"database/sql"

	"github.com/Lakhyajit-96/university-library/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users(full_name, email, university_id, university_card, password_hash)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, verification_status, created_at`,
		u.FullName, u.Email, u.UniversityID, u.UniversityCard, u.PasswordHash,
	).Scan(&u.ID, &u.VerificationStatus, &u.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, full_name, email, university_id, university_card, password_hash,
               verification_status, created_at
        FROM users
        WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.UniversityID, &u.UniversityCard,
		&u.PasswordHash, &u.VerificationStatus, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
