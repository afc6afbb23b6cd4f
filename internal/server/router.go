package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lesmnif/echoes/internal/handlers"
)

type RouterConfig struct {
	GenerationHandler *handlers.GenerationHandler
	JournalHandler    *handlers.JournalHandler
	PostsHandler      *handlers.PostsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/motivational-post", cfg.GenerationHandler.GeneratePost)
		api.POST("/save-journal", cfg.JournalHandler.SaveJournal)
		api.GET("/journal-entries", cfg.JournalHandler.ListEntries)
		api.GET("/all-posts", cfg.PostsHandler.AllPosts)
		api.GET("/posts/:id/images/:idx", cfg.PostsHandler.PostImage)
	}

	return router
}
