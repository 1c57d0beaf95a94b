package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roboadvisor_backend/services/quote"
	"roboadvisor_backend/services/watchlist"
)

// WatchlistService reads and edits watchlists
type WatchlistService interface {
	Get(ctx context.Context, userID string) ([]quote.Snapshot, error)
	Add(ctx context.Context, userID, stockID string) error
	Remove(ctx context.Context, userID, stockID string) error
}

// WatchlistController handles /api/users/:userId/watchlist
type WatchlistController struct {
	service  WatchlistService
	streamer *watchlist.Streamer
}

// NewWatchlistController creates a watchlist controller. streamer may be nil.
func NewWatchlistController(service WatchlistService, streamer *watchlist.Streamer) *WatchlistController {
	return &WatchlistController{service: service, streamer: streamer}
}

// AddWatchlistRequest is the body of POST /api/users/:userId/watchlist
type AddWatchlistRequest struct {
	StockID string `json:"stockId" binding:"required"`
}

// GetWatchlist returns live snapshots for the user's watchlist
// GET /api/users/:userId/watchlist
func (wc *WatchlistController) GetWatchlist(c *gin.Context) {
	items, err := wc.service.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddToWatchlist adds a stock; repeating the call is harmless
// POST /api/users/:userId/watchlist
func (wc *WatchlistController) AddToWatchlist(c *gin.Context) {
	var req AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	err := wc.service.Add(c.Request.Context(), c.Param("userId"), req.StockID)
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, watchlist.ErrUserNotFound):
		respondError(c, ErrCodeUserNotFound)
	case errors.Is(err, watchlist.ErrStockNotFound):
		respondError(c, ErrCodeStockNotFound)
	default:
		respondInternal(c, err)
	}
}

// RemoveFromWatchlist deletes a stock from the watchlist
// DELETE /api/users/:userId/watchlist/:stockId
func (wc *WatchlistController) RemoveFromWatchlist(c *gin.Context) {
	if err := wc.service.Remove(c.Request.Context(), c.Param("userId"), c.Param("stockId")); err != nil {
		respondInternal(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StreamWatchlist upgrades to a websocket and pushes snapshots periodically
// GET /api/users/:userId/watchlist/stream
func (wc *WatchlistController) StreamWatchlist(c *gin.Context) {
	if wc.streamer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "streaming disabled"})
		return
	}
	wc.streamer.Serve(c.Writer, c.Request, c.Param("userId"))
}
