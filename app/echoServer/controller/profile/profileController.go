package profile

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	userrepo "github.com/Lakhyajit-96/university-library/repository/user"
	ps "github.com/Lakhyajit-96/university-library/service/profile"
)

type Controller struct {
	Svc ps.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/my-profile
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/my-profile [get]
func (h *Controller) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	u, err := h.Svc.Me(c.Request().Context(), uid)
	if err != nil {
		switch ps.Code(err) {
		case ps.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		default:
			h.Log.Error("profile me", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": u})
}

// PATCH /v1/my-profile
// @Summary      Update profile fields
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        payload  body  UpdateProfileReq  true  "Fields to update"
// @Success      200  {object}  map[string]any
// @Router       /v1/my-profile [patch]
func (h *Controller) Update(c echo.Context) error {
	var req UpdateProfileReq
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

	err := h.Svc.Update(c.Request().Context(), uid, userrepo.ProfileUpdate{
		Department:    req.Department,
		DateOfBirth:   req.DateOfBirth,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		h.Log.Error("profile update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// PATCH /v1/my-profile/picture
// @Summary      Update profile picture URL
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        payload  body  UpdatePictureReq  true  "Picture URL"
// @Success      200  {object}  map[string]any
// @Router       /v1/my-profile/picture [patch]
func (h *Controller) UpdatePicture(c echo.Context) error {
	var req UpdatePictureReq
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

	if err := h.Svc.UpdatePicture(c.Request().Context(), uid, req.ProfilePicture); err != nil {
		h.Log.Error("picture update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": echo.Map{"profile_picture": req.ProfilePicture}})
}

// GET /v1/my-profile/books
// @Summary      Borrowed books with display status
// @Tags         profile
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/my-profile/books [get]
func (h *Controller) MyBooks(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	rows, err := h.Svc.MyBooks(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my books", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
