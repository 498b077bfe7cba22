package routes

import (
	"log"
	"net/http"

	"quizparty/handlers"
	"quizparty/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	roomHandler *handlers.RoomHandler,
	bankHandler *handlers.BankHandler,
	hub *services.Hub,
) {
	// API routes
	api := router.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("/:code", roomHandler.GetRoomByCode)
		}

		// Question bank management, available only when the bank
		// database is connected.
		if bankHandler != nil {
			questions := api.Group("/questions")
			{
				questions.GET("", bankHandler.ListQuestions)
				questions.POST("", bankHandler.CreateQuestion)
				questions.DELETE("/:id", bankHandler.DeleteQuestion)
			}
		}
	}

	// WebSocket endpoint; rooms are created and joined via socket events
	// after the connection is established.
	router.GET("/ws", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		hub.RegisterClient(conn)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
