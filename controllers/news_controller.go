package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"roboadvisor_backend/services/news"
)

// HeadlineSource provides today's market headlines
type HeadlineSource interface {
	Latest(ctx context.Context) []news.Item
}

// NewsController handles /api/news
type NewsController struct {
	news HeadlineSource
}

// NewNewsController creates a news controller
func NewNewsController(source HeadlineSource) *NewsController {
	return &NewsController{news: source}
}

// GetLatestNews returns today's headlines
// GET /api/news/latest
func (nc *NewsController) GetLatestNews(c *gin.Context) {
	c.JSON(http.StatusOK, nc.news.Latest(c.Request.Context()))
}
