package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roboadvisor_backend/models"
	"roboadvisor_backend/services/stockdetail"
)

// SearchLimit caps stock search results
const SearchLimit = 10

// DetailService builds stock detail responses
type DetailService interface {
	GetDetail(ctx context.Context, stockID string) (*stockdetail.Detail, error)
	GetTechIndicators(ctx context.Context, stockID string) (*stockdetail.TechDetail, error)
}

// StockSearcher looks up stocks by name
type StockSearcher interface {
	SearchByName(ctx context.Context, query string, limit int) ([]models.Stock, error)
}

// StockController handles stock-related requests
type StockController struct {
	details DetailService
	stocks  StockSearcher
}

// NewStockController creates a new stock controller
func NewStockController(details DetailService, stocks StockSearcher) *StockController {
	return &StockController{details: details, stocks: stocks}
}

// TechIndicatorRequest is the body of POST /api/stocks/tech-indicators
type TechIndicatorRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// SearchStocks returns up to 10 stocks whose name contains the query
// GET /api/stocks/search?query=
func (sc *StockController) SearchStocks(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusOK, []models.Stock{})
		return
	}

	stocks, err := sc.stocks.SearchByName(c.Request.Context(), query, SearchLimit)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, stocks)
}

// GetStockByName returns the first stock whose name contains stockName
// GET /api/stocks/name/:stockName
func (sc *StockController) GetStockByName(c *gin.Context) {
	stocks, err := sc.stocks.SearchByName(c.Request.Context(), c.Param("stockName"), 1)
	if err != nil {
		respondInternal(c, err)
		return
	}
	if len(stocks) == 0 {
		respondError(c, ErrCodeStockNotFound)
		return
	}
	c.JSON(http.StatusOK, stocks[0])
}

// GetStockDetail returns the detail page for one stock
// GET /api/stocks/:stockCode
func (sc *StockController) GetStockDetail(c *gin.Context) {
	detail, err := sc.details.GetDetail(c.Request.Context(), c.Param("stockCode"))
	if err != nil {
		sc.handleDetailError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetTechIndicators returns indicators and chart only
// POST /api/stocks/tech-indicators
func (sc *StockController) GetTechIndicators(c *gin.Context) {
	var req TechIndicatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	tech, err := sc.details.GetTechIndicators(c.Request.Context(), strings.TrimSpace(req.Symbol))
	if err != nil {
		sc.handleDetailError(c, err)
		return
	}
	c.JSON(http.StatusOK, tech)
}

func (sc *StockController) handleDetailError(c *gin.Context, err error) {
	if errors.Is(err, stockdetail.ErrStockNotFound) {
		respondError(c, ErrCodeStockNotFound)
		return
	}
	respondInternal(c, err)
}
