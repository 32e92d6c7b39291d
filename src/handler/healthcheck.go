package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck godoc
// @Summary Health check endpoint
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /health [get]
func handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
}

func handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "Meme Server is running...")
}
