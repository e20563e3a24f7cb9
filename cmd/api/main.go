package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"strategy-backtest/internal/api/handlers"
	"strategy-backtest/internal/api/middleware"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	backtestHandler := handlers.NewBacktestHandler()
	optimizeHandler := handlers.NewOptimizeHandler()
	strategyHandler := handlers.NewStrategyHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/backtest", backtestHandler.Run)
		api.POST("/optimize", optimizeHandler.Run)
		api.GET("/strategies", strategyHandler.List)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := http.ListenAndServe(addr, middleware.CORS(router)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
