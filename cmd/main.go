package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"counselgo/backend/internal/api/handler"
	"counselgo/backend/internal/assign"
	"counselgo/backend/internal/chat"
	"counselgo/backend/internal/config"
	"counselgo/backend/internal/enquiry"
	"counselgo/backend/internal/identity"
	"counselgo/backend/internal/models"
	"counselgo/backend/internal/notify"
	"counselgo/backend/internal/storage"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Consultant{},
		&models.Session{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting CounselGo Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	gateway := chat.NewClient(cfg.ChatBackendURL,
		chat.Credentials{UserID: cfg.ChatTechnicalUserID, AuthToken: cfg.ChatTechnicalUserToken},
		chat.Credentials{UserID: cfg.ChatSystemUserID, AuthToken: cfg.ChatSystemUserToken},
	)
	authority := identity.NewClient(cfg.IdentityURL, cfg.IdentityToken, rdb)

	var bot *tgbotapi.BotAPI
	if cfg.TelegramBotToken != "" {
		var err error
		bot, err = tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Printf("Warning: Telegram notifications disabled: %v", err)
		}
	}
	dispatcher := notify.NewDispatcher(s, bot)

	assignOrchestrator := assign.NewOrchestrator(s, gateway, authority, dispatcher,
		cfg.ChatTechnicalUsername, cfg.ChatSystemUserID)
	enquiryOrchestrator := enquiry.NewOrchestrator(s, gateway, authority, dispatcher,
		cfg.ChatSystemUserID)

	r := gin.Default()
	h := handler.NewHandler(s, s, assignOrchestrator, enquiryOrchestrator, []byte(cfg.JWTSecret))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	authorized := r.Group("/", h.AuthRequired())
	authorized.POST("/sessions/:sessionId/enquiry", h.CreateEnquiry)
	authorized.POST("/sessions/:sessionId/accept", h.AcceptEnquiry)
	authorized.PUT("/sessions/:sessionId/consultant/:consultantId", h.AssignConsultant)
	authorized.GET("/ws", h.ServeNotifications)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
