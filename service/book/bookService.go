package booksvc

import (
	"context"
	"errors"

	repo "github.com/Lakhyajit-96/university-library/repository/book"
)

type Book = repo.Book
type ListFilter = repo.ListFilter

const (
	defaultPageSize = 15
	maxPageSize     = 50
	similarLimit    = 6
)

type Repo interface {
	CreateBook(ctx context.Context, b *Book) error
	List(ctx context.Context, f ListFilter) ([]Book, int, error)
	Detail(ctx context.Context, id string) (*Book, error)
	Similar(ctx context.Context, id string, limit int) ([]Book, error)
}

type Service interface {
	Create(ctx context.Context, b *Book) error
	List(ctx context.Context, f ListFilter) ([]Book, int, error)
	Detail(ctx context.Context, id string) (*Book, error)
	Similar(ctx context.Context, id string) ([]Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, b *Book) error {
	if b.Title == "" || b.Author == "" || b.Genre == "" || b.TotalCopies <= 0 {
		return errors.New("invalid payload")
	}
	if b.Rating < 0 || b.Rating > 5 {
		return errors.New("rating out of range")
	}
	b.AvailableCopies = b.TotalCopies
	return s.r.CreateBook(ctx, b)
}

func (s *service) List(ctx context.Context, f ListFilter) ([]Book, int, error) {
	if f.Limit <= 0 || f.Limit > maxPageSize {
		f.Limit = defaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.r.List(ctx, f)
}

func (s *service) Detail(ctx context.Context, id string) (*Book, error) { return s.r.Detail(ctx, id) }

func (s *service) Similar(ctx context.Context, id string) ([]Book, error) {
	return s.r.Similar(ctx, id, similarLimit)
}
