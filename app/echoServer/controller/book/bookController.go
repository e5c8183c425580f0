package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	booksvc "github.com/Lakhyajit-96/university-library/service/book"
	readersvc "github.com/Lakhyajit-96/university-library/service/reader"
)

type Controller struct {
	Svc    booksvc.Service
	Reader readersvc.Service
	V      *validator.Validate
	Log    *slog.Logger
}

// List catalog books
// @Summary      Search the catalog
// @Tags         books
// @Produce      json
// @Param        q      query  string  false  "search over title/author/genre"
// @Param        genre  query  string  false  "exact genre filter"
// @Param        page   query  int     false  "1-based page"
// @Success      200  {object}  map[string]any
// @Router       /v1/books [get]
func (h *Controller) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	const perPage = 15

	books, total, err := h.Svc.List(c.Request().Context(), booksvc.ListFilter{
		Query:  c.QueryParam("q"),
		Genre:  c.QueryParam("genre"),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	totalPages := (total + perPage - 1) / perPage
	return c.JSON(http.StatusOK, echo.Map{
		"data":        books,
		"total":       total,
		"page":        page,
		"total_pages": totalPages,
	})
}

// Detail of one book
// @Summary      Book detail
// @Tags         books
// @Produce      json
// @Param        id  path  string  true  "book id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /v1/books/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	book, err := h.Svc.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": book})
}

// Similar books by genre
// @Summary      Similar books
// @Tags         books
// @Produce      json
// @Param        id  path  string  true  "book id"
// @Success      200  {object}  map[string]any
// @Router       /v1/books/{id}/similar [get]
func (h *Controller) Similar(c echo.Context) error {
	books, err := h.Svc.Similar(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.Log.Error("similar books", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": books})
}

// Create a catalog book
// @Summary      Add a book (admin)
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateBookReq  true  "Book payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /v1/books [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	b := booksvc.Book{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Rating:      req.Rating,
		TotalCopies: req.TotalCopies,
		Description: req.Description,
		CoverColor:  req.CoverColor,
		CoverURL:    req.CoverURL,
		VideoURL:    req.VideoURL,
		Summary:     req.Summary,
		Content:     req.Content,
	}
	if err := h.Svc.Create(c.Request().Context(), &b); err != nil {
		h.Log.Error("book create", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": b})
}

// Content of a borrowed book
// @Summary      Read a borrowed book
// @Description  Returns the book content if the caller holds an active borrow
// @Description  record whose snapshotted verification status is VERIFIED.
// @Tags         books
// @Produce      json
// @Param        id  path  string  true  "book id"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any "student verification required"
// @Failure      404  {object}  map[string]any
// @Router       /v1/books/{id}/content [get]
func (h *Controller) Content(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	out, err := h.Reader.CheckAccess(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		switch readersvc.Code(err) {
		case readersvc.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case readersvc.ErrNotBorrowed:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "you haven't borrowed this book"})
		case readersvc.ErrVerificationRequired:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "complete student verification to read this book"})
		default:
			h.Log.Error("book content", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}
