package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Lakhyajit-96/university-library/app/echoServer/controller/auth"
	"github.com/Lakhyajit-96/university-library/app/echoServer/controller/book"
	"github.com/Lakhyajit-96/university-library/app/echoServer/controller/borrow"
	"github.com/Lakhyajit-96/university-library/app/echoServer/controller/profile"
	"github.com/Lakhyajit-96/university-library/app/echoServer/controller/verification"
	"github.com/Lakhyajit-96/university-library/app/echoServer/jwtx"
)

type C struct {
	Auth         *auth.Controller
	Book         *book.Controller
	Borrow       *borrow.Controller
	Profile      *profile.Controller
	Verification *verification.Controller
	JWTSecret    string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// user_id extraction
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			return next(ctx)
		}
	})

	// Books
	auth.GET("/books", c.Book.List)
	auth.GET("/books/:id", c.Book.Detail)
	auth.GET("/books/:id/similar", c.Book.Similar)
	auth.GET("/books/:id/content", c.Book.Content)
	// Admin endpoints
	auth.POST("/books", c.Book.Create)

	// Borrowing
	auth.POST("/borrow", c.Borrow.Borrow)
	auth.POST("/borrow/:id/return", c.Borrow.Return)
	auth.GET("/borrow/check", c.Borrow.Check)

	// Profile
	auth.GET("/my-profile", c.Profile.Me)
	auth.PATCH("/my-profile", c.Profile.Update)
	auth.PATCH("/my-profile/picture", c.Profile.UpdatePicture)
	auth.GET("/my-profile/books", c.Profile.MyBooks)

	// Verification
	auth.POST("/verification/submit", c.Verification.Submit)
	auth.POST("/verification/:userId/decide", c.Verification.Decide)
}
