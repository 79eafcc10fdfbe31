package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/athomax/shorturl/cmd"
	"github.com/athomax/shorturl/internal/api"
	"github.com/athomax/shorturl/internal/cache"
	"github.com/athomax/shorturl/internal/config"
	"github.com/athomax/shorturl/internal/models"
	"github.com/athomax/shorturl/internal/monitor"
	"github.com/athomax/shorturl/internal/repository"
	"github.com/athomax/shorturl/internal/services"
	"github.com/athomax/shorturl/internal/workers"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RunServerCmd starts the HTTP server together with the click workers and
// the URL monitor.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the URL shortening API server and its background workers.",
	Long: `Initializes the database, wires the slug allocator and redirect
resolver, starts the asynchronous click workers and the URL monitor, then
serves HTTP until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// TranslateError makes the sqlite unique-index violation surface
		// as gorm.ErrDuplicatedKey, which the repository turns into the
		// collision signal.
		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		if err := db.AutoMigrate(&models.Mapping{}, &models.Click{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		mappingRepo := repository.NewMappingRepository(db)
		clickRepo := repository.NewClickRepository(db)
		log.Println("Repositories initialized.")

		var targetCache services.TargetCache
		if cfg.Cache.Enabled {
			ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
			slugCache, err := cache.New(context.Background(), cfg.Cache.Addr, ttl)
			if err != nil {
				// The cache is an optimization; run without it rather
				// than refusing to start.
				log.Printf("WARNING: Redis cache unavailable at %s: %v. Continuing without cache.", cfg.Cache.Addr, err)
			} else {
				defer slugCache.Close()
				targetCache = slugCache
				log.Printf("Redis target cache enabled (addr=%s, ttl=%v).", cfg.Cache.Addr, ttl)
			}
		}

		clickEvents := make(chan models.ClickEvent, cfg.Analytics.BufferSize)
		workers.StartClickWorkers(cfg.Analytics.WorkerCount, clickEvents, mappingRepo, clickRepo)
		log.Printf("Click event channel initialized with a buffer of %d. %d worker(s) started.",
			cfg.Analytics.BufferSize, cfg.Analytics.WorkerCount)

		allocator := services.NewSlugAllocator(mappingRepo)
		resolver := services.NewRedirectResolver(mappingRepo, targetCache, clickEvents)
		log.Println("Services initialized.")

		monitorInterval := time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute
		urlMonitor := monitor.NewURLMonitor(mappingRepo, monitorInterval)
		go urlMonitor.Start()
		log.Printf("URL monitor started with an interval of %v.", monitorInterval)

		router := gin.Default()
		api.SetupRoutes(router, allocator, resolver)

		// Serve the single-page UI when it is deployed next to the binary.
		if _, err := os.Stat("./public/index.html"); err == nil {
			router.StaticFile("/", "./public/index.html")
			router.StaticFile("/app.js", "./public/app.js")
		}
		log.Println("API routes configured.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		go func() {
			log.Printf("Starting server on %s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutdown signal received. Stopping server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		// Stop the producers first, then let the workers drain what is
		// already buffered.
		close(clickEvents)
		time.Sleep(2 * time.Second)

		log.Println("Server stopped cleanly.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
