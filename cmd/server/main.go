package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/skybook/airline-reservation/internal/config"
	"github.com/skybook/airline-reservation/internal/database"
	"github.com/skybook/airline-reservation/internal/handler"
	"github.com/skybook/airline-reservation/internal/queue"
	"github.com/skybook/airline-reservation/internal/repository"
	"github.com/skybook/airline-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	customers := repository.NewCustomerRepo(db)
	staff := repository.NewStaffRepo(db)
	tokens := repository.NewTokenRepo(db)
	flights := repository.NewFlightRepo(db)
	airplanes := repository.NewAirplaneRepo(db)
	tickets := repository.NewTicketRepo(db)
	ratings := repository.NewRatingRepo(db)

	authH := handler.NewAuthHandler(cfg, customers, staff, tokens)
	publicH := handler.NewPublicHandler(flights, airplanes)
	customerH := handler.NewCustomerHandler(tickets, flights, ratings, customers)
	staffH := handler.NewStaffHandler(flights, airplanes, tickets, ratings, staff)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, rdb)
	router.RegisterCustomer(e, customerH, cfg.JWTSecret)
	router.RegisterStaff(e, staffH, cfg.JWTSecret)

	// Purchase events are consumed in-process; the consumer reconnects
	// on its own, so a broker outage never blocks the HTTP server.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
