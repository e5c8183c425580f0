// model/book.go
package model

import "time"

type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	Rating          int       `json:"rating"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	Description     string    `json:"description"`
	CoverColor      string    `json:"cover_color"`
	CoverURL        string    `json:"cover_url"`
	VideoURL        string    `json:"video_url"`
	Summary         string    `json:"summary"`
	Content         string    `json:"content,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
