package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/chat"
	"github.com/taskdeck/taskdeck/internal/llm"
	"github.com/taskdeck/taskdeck/internal/ratelimit"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/tools"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// main is the entry point for the application.
// Its primary role is the "Composition Root": it loads configuration,
// initializes all services, injects dependencies, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting Taskdeck | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	// 2. INITIALIZE SERVICES
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ FATAL: Could not create Postgres pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("❌ FATAL: Could not connect to Postgres: %v", err)
	}

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("❌ FATAL: Could not migrate database: %v", err)
	}
	log.Println("✅ Database ready.")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("❌ FATAL: Could not connect to Redis: %v", err)
	}

	geminiClient, err := llm.NewGeminiClient(cfg.GeminiKey, cfg.Agent.Model)
	if err != nil {
		log.Fatalf("❌ FATAL: Could not create Gemini client: %v", err)
	}

	catalog := tools.NewCatalog()
	executor := tools.NewExecutor(catalog, cfg.SelfBaseURL)
	stats := llm.NewStats(rdb)
	gateway := llm.NewGateway(geminiClient, cfg.Agent.Model, catalog.List(), stats)
	orchestrator := chat.NewOrchestrator(gateway, executor, cfg.Agent.IterationBudget)
	log.Printf("✅ Assistant initialized with %d tools (model: %s).", catalog.Len(), cfg.Agent.Model)

	authService := auth.NewService(cfg.SecretKey, cfg.TokenTTL)
	limiter := ratelimit.New(rdb, cfg.Agent.ChatRequestsPerMinute, time.Minute)
	handler := NewHandler(st, authService, orchestrator, limiter, stats, cfg.Agent.Model)
	log.Println("✅ All services initialized.")

	// 3. SETUP AND RUN THE WEB SERVER
	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := gin.Default()

	authRequired := auth.Middleware(authService, st.GetUserByID)

	engine.GET("/healthz", handler.HandleHealth)
	engine.GET("/stats", handler.HandleStats)
	engine.POST("/token", handler.HandleLogin)

	users := engine.Group("/users")
	{
		users.POST("/create", handler.HandleCreateUser)
		users.GET("/me", authRequired, handler.HandleMe)
		users.POST("/me/password", authRequired, handler.HandleUpdatePassword)
	}

	tasks := engine.Group("/tasks", authRequired)
	{
		tasks.POST("/create", handler.HandleCreateTask)
		tasks.GET("/", handler.HandleListTasks)
		tasks.GET("/:task_id", handler.HandleGetTask)
		tasks.PATCH("/:task_id/update", handler.HandleUpdateTask)
		tasks.DELETE("/:task_id/delete", handler.HandleDeleteTask)
	}

	collections := engine.Group("/collections", authRequired)
	{
		collections.POST("/create", handler.HandleCreateCollection)
		collections.GET("/", handler.HandleListCollections)
		collections.GET("/:collection_id", handler.HandleGetCollection)
		collections.PATCH("/:collection_id/update", handler.HandleUpdateCollection)
		collections.DELETE("/:collection_id/delete", handler.HandleDeleteCollection)
	}

	engine.POST("/chat", authRequired, handler.HandleChat)

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Taskdeck is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
