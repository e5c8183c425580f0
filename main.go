// Package main university library API.
//
// @title           University Library API
// @version         1.0
// @description     Book catalog, borrowing, in-browser reading and student verification.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Lakhyajit-96/university-library/app/echoServer"
	authctrl "github.com/Lakhyajit-96/university-library/app/echoServer/controller/auth"
	bookctrl "github.com/Lakhyajit-96/university-library/app/echoServer/controller/book"
	borrowctrl "github.com/Lakhyajit-96/university-library/app/echoServer/controller/borrow"
	profilectrl "github.com/Lakhyajit-96/university-library/app/echoServer/controller/profile"
	verifctrl "github.com/Lakhyajit-96/university-library/app/echoServer/controller/verification"
	"github.com/Lakhyajit-96/university-library/app/echoServer/validation"
	"github.com/Lakhyajit-96/university-library/config"
	authrepo "github.com/Lakhyajit-96/university-library/repository/auth"
	bookrepo "github.com/Lakhyajit-96/university-library/repository/book"
	borrowrepo "github.com/Lakhyajit-96/university-library/repository/borrow"
	userrepo "github.com/Lakhyajit-96/university-library/repository/user"
	authsvc "github.com/Lakhyajit-96/university-library/service/auth"
	booksvc "github.com/Lakhyajit-96/university-library/service/book"
	borrowsvc "github.com/Lakhyajit-96/university-library/service/borrow"
	profilesvc "github.com/Lakhyajit-96/university-library/service/profile"
	readersvc "github.com/Lakhyajit-96/university-library/service/reader"
	"github.com/Lakhyajit-96/university-library/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	br := bookrepo.New(db)
	rr := borrowrepo.New(db)
	ur := userrepo.New(db)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	bs := booksvc.New(br)
	rs := borrowsvc.New(db, rr)
	reader := readersvc.New(br, rr)
	profs := profilesvc.New(ur, rr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, Reader: reader, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: rs, V: v, Log: log}
	profileC := &profilectrl.Controller{Svc: profs, V: v, Log: log}
	verifC := &verifctrl.Controller{Svc: profs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:         authC,
		Book:         bookC,
		Borrow:       borrowC,
		Profile:      profileC,
		Verification: verifC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
