package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"strategy-backtest/internal/api/models"
	"strategy-backtest/internal/optimize"
	"strategy-backtest/internal/strategy"
)

// OptimizeHandler handles parameter-sweep requests.
type OptimizeHandler struct{}

func NewOptimizeHandler() *OptimizeHandler { return &OptimizeHandler{} }

// Run handles POST /api/v1/optimize.
func (h *OptimizeHandler) Run(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	name := req.Config.Strategy.Name
	factory := func(params map[string]any) (strategy.Strategy, error) {
		return strategy.FromParams(name, params)
	}

	opt, err := optimize.New(factory, req.Bars, optimize.Settings{
		Risk:           req.Config.Risk,
		Engine:         req.Config.Backtest,
		PeriodsPerYear: req.Options.PeriodsPerYear,
		Workers:        req.Options.Workers,
	})
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err)
		return
	}

	rows, err := opt.Run(req.Grid)
	if err != nil {
		badRequest(c, "INVALID_GRID", err)
		return
	}

	metric := req.Options.Metric
	if metric == "" {
		metric = "total_return_pct"
	}
	resp := models.OptimizeResponse{
		Status: "completed",
		Metric: metric,
		Rows:   rows,
	}
	if best, ok := optimize.Best(rows, metric); ok {
		resp.Best = &best
	}
	c.JSON(http.StatusOK, resp)
}
