package borrow

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	bs "github.com/Lakhyajit-96/university-library/service/borrow"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/borrow
// @Summary      Borrow a book
// @Tags         borrow
// @Accept       json
// @Produce      json
// @Param        payload  body  BorrowReq  true  "Borrow payload"
// @Success      201  {object}  map[string]any
// @Failure      404  {object}  map[string]any "book or user not found"
// @Failure      409  {object}  map[string]any "no copies available / already borrowed"
// @Router       /v1/borrow [post]
func (h *Controller) Borrow(c echo.Context) error {
	var req BorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(string)

	rec, err := h.Svc.Borrow(c.Request().Context(), uid, req.BookID)
	if err != nil {
		h.Log.Error("borrow", "err", err, "book_id", req.BookID)
		switch bs.Code(err) {
		case bs.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case bs.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case bs.ErrBookUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book is not available for borrowing"})
		case bs.ErrAlreadyBorrowed:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book already borrowed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"record":              rec,
		"verification_status": rec.VerificationStatus,
	})
}

// POST /v1/borrow/:id/return
// @Summary      Return a borrowed book
// @Tags         borrow
// @Produce      json
// @Param        id  path  string  true  "borrow record id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any "no active borrow record"
// @Router       /v1/borrow/{id}/return [post]
func (h *Controller) Return(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	returnedAt, err := h.Svc.Return(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		h.Log.Error("return", "err", err, "record_id", c.Param("id"))
		switch bs.Code(err) {
		case bs.ErrRecordNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no active borrow record found for this book"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "returned",
		"return_date": returnedAt.Format(time.RFC3339),
	})
}

// GET /v1/borrow/check?book_id=
// @Summary      Check for an active borrow record
// @Tags         borrow
// @Produce      json
// @Param        book_id  query  string  true  "book id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any "book not borrowed by user"
// @Router       /v1/borrow/check [get]
func (h *Controller) Check(c echo.Context) error {
	bookID := c.QueryParam("book_id")
	if bookID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing book_id"})
	}
	uid, _ := c.Get("user_id").(string)

	rec, err := h.Svc.ActiveRecord(c.Request().Context(), uid, bookID)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrRecordNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not borrowed by user"})
		default:
			h.Log.Error("borrow check", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"borrow_record": rec})
}
