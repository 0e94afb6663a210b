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

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/avikmasanta/urlshortener/cmd"
	"github.com/avikmasanta/urlshortener/internal/api"
	"github.com/avikmasanta/urlshortener/internal/generator"
	"github.com/avikmasanta/urlshortener/internal/logging"
	"github.com/avikmasanta/urlshortener/internal/models"
	"github.com/avikmasanta/urlshortener/internal/monitor"
	"github.com/avikmasanta/urlshortener/internal/repository"
	"github.com/avikmasanta/urlshortener/internal/services"
	"github.com/avikmasanta/urlshortener/internal/workers"
)

// RunServerCmd is the 'run-server' Cobra command: it initializes the store,
// starts the log workers and the URL monitor, then serves HTTP until a
// shutdown signal arrives.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Start the URL shortener API server and background processes.",
	Long: `This command initializes the database, configures the API routes,
starts the asynchronous log delivery workers and the URL monitor,
then launches the HTTP server.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg := cmd.Cfg

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		if err := db.AutoMigrate(&models.Link{}, &models.Click{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		linkRepo := repository.NewLinkRepository(db)
		clickRepo := repository.NewClickRepository(db)
		log.Println("Repositories initialized.")

		// Remote structured logging is best-effort and optional: without an
		// endpoint the service runs with a no-op logger.
		var events logging.EventLogger = logging.NopLogger{}
		var logEvents chan logging.Event
		if cfg.Logging.Endpoint != "" {
			logEvents = make(chan logging.Event, cfg.Logging.BufferSize)
			sink := logging.NewHTTPSink(cfg.Logging.Endpoint, cfg.Logging.Token)
			workers.StartLogWorkers(cfg.Logging.WorkerCount, logEvents, sink)
			events = logging.NewChannelLogger(logEvents)
			log.Printf("Log event channel initialized with a buffer of %d. %d worker(s) started.",
				cfg.Logging.BufferSize, cfg.Logging.WorkerCount)
		}

		gen := generator.NewRandomGenerator(cfg.Shortener.CodeLength)
		shortener := services.NewShortenerService(linkRepo, clickRepo, gen, events, cfg.Server.BaseURL)
		log.Println("Shortener service initialized.")

		// URL monitor runs until shutdown; it only reads the store.
		monitorCtx, stopMonitor := context.WithCancel(context.Background())
		defer stopMonitor()
		if cfg.Monitor.Enabled {
			interval := time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute
			urlMonitor := monitor.NewURLMonitor(linkRepo, interval)
			go urlMonitor.Start(monitorCtx)
			log.Printf("URL monitor started with an interval of %v.", interval)
		}

		router := gin.Default()
		api.SetupRoutes(router, shortener)
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

		// Block until SIGINT or SIGTERM, then shut down cleanly.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutdown signal received. Stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		// Stop the monitor and let the log workers drain the channel.
		stopMonitor()
		if logEvents != nil {
			close(logEvents)
			time.Sleep(time.Second)
		}

		log.Println("Server stopped cleanly.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
