package verification

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ps "github.com/Lakhyajit-96/university-library/service/profile"
)

type Controller struct {
	Svc ps.Service
	V   *validator.Validate
	Log *slog.Logger
}

type decideReq struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// POST /v1/verification/submit
// @Summary      Submit a student verification request
// @Tags         verification
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  map[string]any "already pending or verified"
// @Router       /v1/verification/submit [post]
func (h *Controller) Submit(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	if err := h.Svc.SubmitVerification(c.Request().Context(), uid); err != nil {
		switch ps.Code(err) {
		case ps.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case ps.ErrAlreadyPending:
			return c.JSON(http.StatusConflict, echo.Map{"message": "verification already pending"})
		case ps.ErrAlreadyVerified:
			return c.JSON(http.StatusConflict, echo.Map{"message": "already verified"})
		default:
			h.Log.Error("verification submit", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "verification submitted for review"})
}

// POST /v1/verification/:userId/decide
// @Summary      Approve or reject a pending verification (admin)
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        userId   path  string     true  "user id"
// @Param        payload  body  decideReq  true  "approve | reject"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  map[string]any "not pending"
// @Router       /v1/verification/{userId}/decide [post]
func (h *Controller) Decide(c echo.Context) error {
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	err := h.Svc.DecideVerification(c.Request().Context(), c.Param("userId"), req.Action == "approve")
	if err != nil {
		switch ps.Code(err) {
		case ps.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case ps.ErrNotPending:
			return c.JSON(http.StatusConflict, echo.Map{"message": "no pending verification"})
		default:
			h.Log.Error("verification decide", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "decision recorded"})
}
