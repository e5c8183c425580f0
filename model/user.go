package model

import "time"

type VerificationStatus string

const (
	Unverified          VerificationStatus = "UNVERIFIED"
	PendingVerification VerificationStatus = "PENDING_VERIFICATION"
	Verified            VerificationStatus = "VERIFIED"
	Rejected            VerificationStatus = "REJECTED"
)

type User struct {
	ID                 string             `json:"id"`
	FullName           string             `json:"full_name"`
	Email              string             `json:"email"`
	UniversityID       int64              `json:"university_id"`
	UniversityCard     string             `json:"university_card"`
	PasswordHash       string             `json:"-"`
	ProfilePicture     *string            `json:"profile_picture,omitempty"`
	Department         *string            `json:"department,omitempty"`
	DateOfBirth        *string            `json:"date_of_birth,omitempty"`
	ContactNumber      *string            `json:"contact_number,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
}

// model/user.go

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	UniversityID   int64  `json:"university_id" validate:"required,gt=0"`
	UniversityCard string `json:"university_card" validate:"required"`
	Password       string `json:"password" validate:"required,min=6"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
