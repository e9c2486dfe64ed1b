package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/gomoku/internal/config"
	"github.com/iamasit07/gomoku/internal/repository/postgres"
	"github.com/iamasit07/gomoku/internal/repository/redis"
	"github.com/iamasit07/gomoku/internal/service/bot"
	"github.com/iamasit07/gomoku/internal/service/cleanup"
	"github.com/iamasit07/gomoku/internal/service/game"
	transportHttp "github.com/iamasit07/gomoku/internal/transport/http"
	"github.com/iamasit07/gomoku/internal/transport/http/middleware"
	"github.com/iamasit07/gomoku/internal/transport/websocket"
	"github.com/iamasit07/gomoku/pkg/auth"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()

	// 1. Game archive (optional)
	var gameRepo *postgres.GameRepo
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		gameRepo = postgres.NewGameRepo(db)
	} else {
		log.Println("[DB] DATABASE_URL not set, finished games will not be archived")
	}

	// 2. AI move cache: Redis when reachable, in-process otherwise
	var moveCache bot.MoveCache
	redisClient, err := redis.InitRedis(context.Background(), cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Printf("Failed to initialize Redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		moveCache = redis.NewMoveCache(redisClient, cfg.AICacheTTL)
	} else {
		moveCache = bot.NewMemoryCache(4096)
	}

	// 3. Services
	engine := bot.NewEngine(append(cfg.EngineOptions(), bot.WithCache(moveCache))...)
	connManager := websocket.NewConnectionManager()

	smOpts := []game.Option{
		game.WithNotifier(connManager),
		game.WithTTL(cfg.FinishedSessionTTL, cfg.IdleSessionTTL),
	}
	if gameRepo != nil {
		smOpts = append(smOpts, game.WithRepository(gameRepo))
	}
	sessionManager := game.NewSessionManager(engine, smOpts...)
	seats := auth.NewSeatSigner(cfg.JWTSecret, cfg.SeatTokenTTL)

	// 4. Background workers
	cleanupWorker := cleanup.NewWorker(sessionManager, time.Hour)
	cleanupWorker.Start()
	defer cleanupWorker.Stop()

	// 5. Handlers
	gameHandler := transportHttp.NewGameHandler(sessionManager, seats)
	var archive transportHttp.GameArchive
	if gameRepo != nil {
		archive = gameRepo
	}
	historyHandler := transportHttp.NewHistoryHandler(archive)
	watchHandler := transportHttp.NewWatchHandler(sessionManager, connManager)
	wsHandler := websocket.NewHandler(connManager, sessionManager, seats, cfg.AllowedOrigins)

	// 6. Router
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")
	gameHandler.RegisterRoutes(api)
	api.GET("/history", historyHandler.GetHistory)
	api.GET("/history/:id", historyHandler.GetGameDetails)
	api.GET("/watch", watchHandler.GetLiveGames)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// WebSocket Route (seat tokens are checked per message)
	router.GET("/ws/games/:id", wsHandler.HandleWebSocket)

	// Serve static frontend files (SPA fallback)
	if _, err := os.Stat("./static"); err == nil {
		router.Static("/assets", "./static/assets")
		router.GET("/", func(c *gin.Context) {
			c.File("./static/index.html")
		})
		router.NoRoute(func(c *gin.Context) {
			path := "./static" + c.Request.URL.Path
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				c.File(path)
				return
			}
			if strings.HasPrefix(c.Request.URL.Path, "/api/") || strings.HasPrefix(c.Request.URL.Path, "/assets/") {
				c.Status(http.StatusNotFound)
				return
			}
			c.File("./static/index.html")
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// let pending archive writes finish
	sessionManager.Close()
	sessionManager.Wait()
	log.Println("Server exited gracefully")
}
