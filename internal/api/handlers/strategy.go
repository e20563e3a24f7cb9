package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"strategy-backtest/internal/api/models"
	"strategy-backtest/internal/strategy"
)

// StrategyHandler serves the list of selectable strategies.
type StrategyHandler struct{}

func NewStrategyHandler() *StrategyHandler { return &StrategyHandler{} }

// List handles GET /api/v1/strategies.
func (h *StrategyHandler) List(c *gin.Context) {
	names := strategy.Names()
	out := make([]models.StrategyInfo, len(names))
	for i, name := range names {
		out[i] = models.StrategyInfo{Name: name}
	}
	c.JSON(http.StatusOK, gin.H{"strategies": out})
}
