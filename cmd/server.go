package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"roboadvisor_backend/config"
	"roboadvisor_backend/controllers"
	"roboadvisor_backend/middleware"
	"roboadvisor_backend/repository"
	"roboadvisor_backend/routes"
	"roboadvisor_backend/scheduler"
	"roboadvisor_backend/services/marketdata"
	"roboadvisor_backend/services/news"
	"roboadvisor_backend/services/quote"
	"roboadvisor_backend/services/seed"
	"roboadvisor_backend/services/stockdetail"
	"roboadvisor_backend/services/watchlist"
)

var seedFile string

var serverCMD = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long:  `Start the HTTP API server with the inactive-user cleanup job.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServer(loadConfig())
	},
}

func init() {
	serverCMD.Flags().StringVar(&seedFile, "seed", "", "KRX stock master CSV to load when the catalog is empty")
}

func runServer(cfg *config.Config) {
	log.Println("==============================================")
	log.Println("  Robo-Advisor Backend API - Starting...")
	log.Println("==============================================")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("[ERROR] database connection failed: %v", err)
	}

	stocks := repository.NewStockRepository(db)
	users := repository.NewUserRepository(db)
	watchlists := repository.NewWatchlistRepository(db)

	if seedFile != "" {
		if _, err := seed.NewLoader(stocks).LoadFile(context.Background(), seedFile); err != nil {
			log.Printf("[ERROR] stock seed failed: %v", err)
		}
	}

	loc := cfg.Location()
	httpClient := config.NewHTTPClient(cfg)
	timeout := cfg.Upstream.Timeout

	charts := marketdata.NewChartClient(httpClient, cfg.Yahoo.BaseURL, timeout, loc)
	newsFetcher := news.NewFetcher(httpClient, cfg.DeepSearch.BaseURL, cfg.DeepSearch.APIKey, timeout, loc)
	quotes := quote.NewFetcher(httpClient, cfg.AI.BaseURL, timeout)

	aggregator := stockdetail.NewAggregator(stocks, charts, newsFetcher, cfg.Yahoo.SymbolSuffix, timeout)
	watchlistService := watchlist.NewService(watchlists, users, stocks, quotes, cfg.Upstream.FanOutLimit)
	streamer := watchlist.NewStreamer(watchlistService, cfg.Upstream.StreamInterval)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limiter.StartCleanup(10 * time.Minute)

	router := routes.NewRouter(db, routes.Controllers{
		Stocks:    controllers.NewStockController(aggregator, stocks),
		Watchlist: controllers.NewWatchlistController(watchlistService, streamer),
		Users:     controllers.NewUserController(users),
		News:      controllers.NewNewsController(newsFetcher),
	}, limiter)

	jobScheduler := scheduler.NewScheduler(users, cfg.Cleanup.At, cfg.Cleanup.InactiveDays, loc)
	if err := jobScheduler.Start(); err != nil {
		log.Fatalf("[ERROR] failed to start scheduler: %v", err)
	}

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	go func() {
		log.Printf("[INFO] server listening on 0.0.0.0:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[ERROR] server error: %v", err)
		}
	}()

	gracefulShutdown(server, jobScheduler, limiter, db)
}

// gracefulShutdown waits for a signal and stops the server, scheduler and database
func gracefulShutdown(server *http.Server, jobScheduler *scheduler.Scheduler, limiter *middleware.RateLimiter, db *gorm.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("[INFO] received signal %v, shutting down gracefully...", sig)

	jobScheduler.Stop()
	limiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[WARN] server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
		log.Println("[INFO] database connection closed")
	}

	log.Println("[INFO] server shutdown completed")
}
