// model/borrow.go
package model

import "time"

type BorrowStatus string

const (
	BorrowActive   BorrowStatus = "BORROWED"
	BorrowReturned BorrowStatus = "RETURNED"
)

// SnapshotStatus is the user's verification status as captured on the
// borrow record at creation time. Only VERIFIED and UNVERIFIED are stored:
// anything other than a fully verified user collapses to UNVERIFIED.
type SnapshotStatus string

const (
	SnapshotVerified   SnapshotStatus = "VERIFIED"
	SnapshotUnverified SnapshotStatus = "UNVERIFIED"
)

type BorrowRecord struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"user_id"`
	BookID             string         `json:"book_id"`
	BorrowDate         time.Time      `json:"borrow_date"`
	DueDate            time.Time      `json:"due_date"`
	ReturnDate         *time.Time     `json:"return_date,omitempty"`
	Status             BorrowStatus   `json:"status"`
	VerificationStatus SnapshotStatus `json:"verification_status"`
}
