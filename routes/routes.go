package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"roboadvisor_backend/controllers"
	"roboadvisor_backend/middleware"
)

// Controllers groups the API handlers
type Controllers struct {
	Stocks    *controllers.StockController
	Watchlist *controllers.WatchlistController
	Users     *controllers.UserController
	News      *controllers.NewsController
}

// NewRouter builds the gin engine with middleware, health checks and API routes
func NewRouter(db *gorm.DB, ctrl Controllers, limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())

	SetupHealthEndpoints(router, db)
	SetupRoutes(router, ctrl, limiter)
	return router
}

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, ctrl Controllers, limiter *middleware.RateLimiter) {
	api := router.Group("/api")
	api.Use(middleware.RateLimit(limiter))
	{
		// Stock routes; static paths are registered before the code wildcard
		stocks := api.Group("/stocks")
		{
			stocks.GET("/search", ctrl.Stocks.SearchStocks)
			stocks.GET("/name/:stockName", ctrl.Stocks.GetStockByName)
			stocks.POST("/tech-indicators", ctrl.Stocks.GetTechIndicators)
			stocks.GET("/:stockCode", ctrl.Stocks.GetStockDetail)
		}

		// Guest users and their watchlists
		users := api.Group("/users")
		{
			users.POST("", ctrl.Users.CreateGuest)
			users.GET("/:userId", ctrl.Users.GetUser)
			users.GET("/:userId/watchlist", ctrl.Watchlist.GetWatchlist)
			users.POST("/:userId/watchlist", ctrl.Watchlist.AddToWatchlist)
			users.GET("/:userId/watchlist/stream", ctrl.Watchlist.StreamWatchlist)
			users.DELETE("/:userId/watchlist/:stockId", ctrl.Watchlist.RemoveFromWatchlist)
		}

		news := api.Group("/news")
		{
			news.GET("/latest", ctrl.News.GetLatestNews)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, controllers.ErrorResponse{
			Status:  http.StatusNotFound,
			Error:   "NOT_FOUND",
			Message: "요청한 경로를 찾을 수 없습니다.",
		})
	})
}
