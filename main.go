package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"xanddash/config"
	"xanddash/handlers"
	"xanddash/middleware"
	"xanddash/services"
	"xanddash/utils"
)

func main() {
	// 1. Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("=== Configuration ===")
	log.Printf("Server: %s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Backend: %s (maintenance: %v)", cfg.Backend.BaseURL, cfg.Maintenance())
	log.Printf("Credits feed: %s (%s)", cfg.Credits.BaseURL, cfg.Credits.Network)
	log.Printf("Redis: %s", cfg.Redis.Address)
	log.Printf("MongoDB: %s", cfg.MongoDB.Database)

	// 2. Core Services
	geo := utils.NewGeoResolver(cfg.GeoIP.DBPath)
	defer geo.Close()

	mongoService, err := services.NewMongoDBService(cfg)
	if err != nil {
		log.Printf("⚠️ MongoDB connection failed: %v (history limited to in-memory window)", err)
		mongoService = nil
	}

	bus := services.NewBus()
	backend := services.NewBackendClient(cfg)
	creditsService := services.NewCreditsService(cfg)
	poller := services.NewNodePoller(cfg, backend, creditsService, geo, bus)
	aggregator := services.NewDataAggregator(poller)
	cache := services.NewCacheService(cfg, poller, aggregator, bus)

	// Settings persist in Redis when available, in memory otherwise
	var settingsBackend services.SettingsBackend
	if client := cache.RedisClient(); client != nil {
		settingsBackend = services.NewRedisSettingsBackend(client)
	} else {
		settingsBackend = services.NewMemorySettingsBackend()
	}
	settings := services.NewSettingsStore(settingsBackend)

	// Feature Services
	discordBot, err := services.NewDiscordBotService(cfg.Discord.BotToken, cfg.Discord.ChannelID)
	if err != nil {
		log.Printf("⚠️ Discord bot unavailable: %v", err)
		discordBot, _ = services.NewDiscordBotService("", "")
	}
	defer discordBot.Close()

	historyService := services.NewHistoryService(cfg, poller, aggregator, mongoService)
	alertService := services.NewAlertService(poller, bus, discordBot, settings)
	calculatorService := services.NewCalculatorService(cfg)
	insightService := services.NewInsightService(cfg)
	defer insightService.Close()
	swapService := services.NewSwapService(cfg)
	liveUpdate := services.NewLiveUpdateClient(cfg, bus)

	// 3. Start Background Services
	log.Println("=== Starting Services ===")

	creditsService.Start()
	poller.Start()
	cache.StartCacheWarmer()
	log.Printf("✓ Cache mode: %s", cache.GetCacheMode())
	historyService.Start()
	alertService.Start()
	liveUpdate.Start()

	log.Println("=== All Services Running ===")

	// 4. Web Server
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.LoggerMiddleware())
	e.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	e.Use(middleware.MaintenanceMiddleware(cfg))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Recovered from panic: %v", r)
					c.Error(fmt.Errorf("internal server error"))
				}
			}()
			return next(c)
		}
	})

	// 5. Handlers
	h := handlers.NewHandler(cfg, cache, poller, aggregator, backend,
		creditsService, historyService, alertService, insightService,
		swapService, settings, calculatorService)

	// 6. Routes
	e.GET("/health", h.GetHealth)

	api := e.Group("/api")
	api.GET("/status", h.GetStatus)

	// Nodes
	api.GET("/pnodes", h.GetPNodes)
	api.GET("/pnodes/:id", h.GetPNode)
	api.GET("/pnodes/:id/history", h.GetNodeHistory)
	api.POST("/pnodes/refresh", h.RefreshPNodes)
	api.GET("/leaderboard", h.GetLeaderboard)

	// Stats & network
	api.GET("/dashboard/stats", h.GetDashboardStats)
	api.GET("/network/heatmap", h.GetHeatmap)
	api.GET("/network/history", h.GetNetworkHistory)
	api.GET("/analytics", h.GetAnalytics)

	// Credits
	api.GET("/credits", h.GetCredits)
	api.GET("/credits/:id", h.GetNodeCredits)

	// AI insight
	api.POST("/ai/insight", h.PostInsight)

	// Jupiter passthrough
	api.GET("/jupiter/quote", h.JupiterQuote)
	api.POST("/jupiter/swap", h.JupiterSwap)

	// Settings
	api.GET("/settings/:key", h.GetSetting)
	api.PUT("/settings/:key", h.PutSetting)
	api.DELETE("/settings/:key", h.DeleteSetting)

	// Calculator
	api.GET("/calculator/stoinc", h.GetStoinc)
	api.GET("/calculator/costs", h.CompareCosts)

	// Alerts
	api.GET("/alerts", h.GetAlerts)

	// Cache admin
	api.GET("/cache/stats", h.GetCacheStats)
	api.POST("/cache/clear", h.ClearCache)

	// Scrubbed backend passthrough
	api.Any("/proxy/*", h.Proxy)

	// 7. Start Server with Graceful Shutdown
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		log.Printf("🚀 Server running on http://%s", serverAddr)
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("shutting down the server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Graceful shutdown initiated...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Stopping services...")
	liveUpdate.Stop()
	alertService.Stop()
	historyService.Stop()
	cache.Stop()
	poller.Stop()
	creditsService.Stop()
	bus.Close()
	if mongoService != nil {
		if err := mongoService.Close(ctx); err != nil {
			log.Printf("MongoDB disconnect: %v", err)
		}
	}
	log.Println("✓ All services stopped")

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	log.Println("✓ Server exited cleanly")
}
