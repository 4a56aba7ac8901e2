package main

import (
	"log"

	"ieltsprep/config"
	"ieltsprep/handlers"
	"ieltsprep/middleware"
	"ieltsprep/models"
	"ieltsprep/routes"
	"ieltsprep/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	redisClient := config.InitRedis(cfg)
	testCache := services.NewTestCache(redisClient, cfg.TestCacheTTL)

	var events services.EventPublisher
	if cfg.RabbitMQURI != "" {
		publisher, err := services.NewAMQPPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Printf("Event publishing disabled: %v", err)
		} else {
			defer publisher.Close()
			events = publisher
		}
	}

	policy, err := services.ParseSynthesisPolicy(cfg.AudioFailurePolicy)
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	hub := services.NewHub()
	go hub.Run()

	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	testService := services.NewTestService(db, services.TestServiceConfig{
		Generator:   services.NewChatClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout),
		Synthesizer: services.NewVoiceRSSSynthesizer(cfg.VoiceRSSAPIKey, cfg.VoiceRSSVoice),
		Policy:      policy,
		Cache:       testCache,
		Events:      events,
		Notifier:    hub,
	})
	sessionService := services.NewSessionService(db, events, hub)

	authHandler := handlers.NewAuthHandler(authService)
	testHandler := handlers.NewTestHandler(testService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	routes.SetupRoutes(router, authHandler, testHandler, sessionHandler, hub, authService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
