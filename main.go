package main

import (
	"context"
	"log"

	"quizparty/config"
	"quizparty/game"
	"quizparty/handlers"
	"quizparty/models"
	"quizparty/routes"
	"quizparty/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Question bank: prefer the database, fall back to the built-in set
	bank := game.DefaultBank()
	var bankService *services.BankService

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Printf("Question bank database unavailable, using built-in bank: %v", err)
	} else {
		if err := db.AutoMigrate(&models.Question{}, &models.Answer{}); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		bankService = services.NewBankService(db)
		loaded, err := bankService.LoadBank()
		if err != nil {
			log.Printf("Failed to load question bank, using built-in bank: %v", err)
		} else if loaded.Size() > 0 {
			bank = loaded
			log.Printf("Loaded %d questions from database", loaded.Size())
		} else {
			log.Printf("Question bank is empty, using built-in bank (%d questions)", bank.Size())
		}
	}

	// Initialize Redis snapshot cache
	redisClient := config.InitRedis(cfg)
	cache := services.NewSnapshotCache(redisClient)

	// Room registry with idle cleanup; removed rooms drop their cached
	// snapshot so lookups stop serving dead state
	registry := game.NewRegistry(cfg.RoomIdleTTL)
	registry.OnRemove(func(code string) {
		if err := cache.Delete(context.Background(), code); err != nil {
			log.Printf("Failed to drop cached snapshot for room %s: %v", code, err)
		}
	})

	// Initialize WebSocket hub and event dispatcher
	hub := services.NewHub()
	dispatcher := services.NewDispatcher(registry, bank, hub, cache, services.Defaults{
		QuestionCount:    cfg.QuestionCount,
		QuestionDuration: cfg.QuestionDuration,
	})
	hub.SetDispatcher(dispatcher)
	go hub.Run()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(registry, cache)
	var bankHandler *handlers.BankHandler
	if bankService != nil {
		bankHandler = handlers.NewBankHandler(bankService)
	}

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(cors.Default())

	// Setup routes
	routes.SetupRoutes(router, roomHandler, bankHandler, hub)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.BindAddress + ":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
