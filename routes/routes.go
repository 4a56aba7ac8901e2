package routes

import (
	"log"
	"net/http"

	"ieltsprep/handlers"
	"ieltsprep/middleware"
	"ieltsprep/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are enforced by the CORS middleware on the API
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	testHandler *handlers.TestHandler,
	sessionHandler *handlers.SessionHandler,
	hub *services.Hub,
	validator middleware.TokenValidator,
) {
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(validator))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			tests := protected.Group("/ielts/tests")
			{
				tests.POST("/generate", testHandler.GenerateTest)
				tests.GET("", testHandler.ListTests)
				tests.GET("/:id", testHandler.GetTest)
				tests.DELETE("/:id", testHandler.DeleteTest)
				tests.POST("/:id/start", sessionHandler.StartTest)
			}

			history := protected.Group("/ielts/history")
			{
				history.GET("", sessionHandler.GetUserHistory)
				history.GET("/:id", sessionHandler.GetHistory)
				history.POST("/:id/submit", sessionHandler.SubmitTest)
				history.GET("/:id/result", sessionHandler.GetResult)
			}
		}
	}

	// Browsers cannot set headers on a websocket handshake, so the token
	// travels in the query string.
	router.GET("/ws", func(c *gin.Context) {
		claims, err := validator.ValidateToken(c.Query("token"))
		if err != nil {
			log.Printf("WebSocket connection rejected: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for user %d: %v", claims.UserID, err)
			return
		}

		hub.RegisterClient(conn, claims.UserID)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
