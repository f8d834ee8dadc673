package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/user/hebrew-imagegen/internal/transport/middleware"
)

func InitRoutes(imgHandler *ImageHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api")
	{
		api.POST("/generate-image", imgHandler.GenerateImage)
		api.POST("/add-text", imgHandler.AddText)
		api.POST("/suggest-texts", imgHandler.SuggestTexts)
		api.GET("/positions", imgHandler.SuggestPositions)
		api.GET("/image/:id", imgHandler.GetImage)
		api.GET("/download/:id", imgHandler.DownloadImage)
	}

	// Static frontend, served as-is when present.
	router.Static("/static", "./web/static")
	router.GET("/", func(c *gin.Context) {
		c.File("./web/static/index.html")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "hebrew-imagegen",
		})
	})
	return router
}
