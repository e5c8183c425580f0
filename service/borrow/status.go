package borrow

import (
	"fmt"
	"time"

	"github.com/Lakhyajit-96/university-library/model"
)

// DisplayStatus is the human-facing state of a borrow record. It is derived
// from the record and the current time on every read, never stored.
type DisplayStatus string

const (
	DisplayBorrowed DisplayStatus = "borrowed"
	DisplayOverdue  DisplayStatus = "overdue"
	DisplayReturned DisplayStatus = "returned"
)

// Display derives the status and countdown text for a record at the given
// time. Days remaining truncate toward zero, so a due date equal to now (or
// less than a full day past) still reads as borrowed with "0 days left";
// overdue needs a full day elapsed.
func Display(status model.BorrowStatus, dueDate time.Time, returnDate *time.Time, now time.Time) (DisplayStatus, string) {
	if status == model.BorrowReturned && returnDate != nil {
		return DisplayReturned, "Returned on " + returnDate.Format("Jan 02")
	}

	daysUntilDue := int(dueDate.Sub(now).Hours() / 24)
	if daysUntilDue < 0 {
		return DisplayOverdue, "Overdue Return"
	}
	return DisplayBorrowed, fmt.Sprintf("%d days left to due", daysUntilDue)
}

// DisplayRecord is the record-shaped convenience wrapper around Display.
func DisplayRecord(rec *model.BorrowRecord, now time.Time) (DisplayStatus, string) {
	return Display(rec.Status, rec.DueDate, rec.ReturnDate, now)
}
