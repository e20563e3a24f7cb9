package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"strategy-backtest/internal/api/models"
	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/strategy"
)

// BacktestHandler handles single-run backtest requests.
type BacktestHandler struct{}

func NewBacktestHandler() *BacktestHandler { return &BacktestHandler{} }

// Run handles POST /api/v1/backtest.
func (h *BacktestHandler) Run(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	strat, err := strategy.FromParams(req.Config.Strategy.Name, req.Config.Strategy.Params)
	if err != nil {
		badRequest(c, "INVALID_STRATEGY", err)
		return
	}
	bars, err := strat.Annotate(req.Bars)
	if err != nil {
		badRequest(c, "INVALID_STRATEGY", err)
		return
	}

	eng, err := backtest.New(req.Config.Backtest, req.Config.Risk, bars)
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err)
		return
	}

	res := eng.Run()
	resp := models.BacktestResponse{
		Status:         "completed",
		InitialBalance: res.InitialBalance,
		FinalBalance:   res.FinalBalance,
		Summary:        backtest.Analyze(res, req.Options.PeriodsPerYear),
	}
	if req.Options.IncludeTrades {
		resp.Trades = res.Trades
	}
	if req.Options.IncludeEquity {
		resp.Equity = res.Equity
	}
	c.JSON(http.StatusOK, resp)
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
