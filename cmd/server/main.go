package main

import (
	"log"
	"os"

	"bylines/internal/db"
	"bylines/internal/handlers"
	"bylines/internal/router"
	"bylines/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db.Init()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	settings := services.NewSettingsService(db.DB)
	if err := settings.Load(); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	guests := services.NewGuestService(db.DB)
	users := services.NewUserDirectory(db.DB, guests)
	media := services.NewMediaService(db.DB)
	roles := services.NewRoleService(db.DB, settings)
	contributors := services.NewContributorService(guests, users, media, logger)
	assignments := services.NewAssignmentService(db.DB, roles, contributors, media, settings, logger)
	posts := services.NewPostService(db.DB)

	r := gin.Default()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "bylines-dev-secret"
		log.Println("SESSION_SECRET not set, using insecure development secret")
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("bylines_session", store))

	router.RegisterRoutes(r, router.Handlers{
		Auth:         handlers.NewAuthHandler(users),
		Contributors: handlers.NewContributorHandler(contributors),
		Roles:        handlers.NewRoleHandler(roles),
		Guests:       handlers.NewGuestHandler(guests),
		Assignments:  handlers.NewAssignmentHandler(assignments, posts),
		Settings:     handlers.NewSettingHandler(roles, settings),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
