package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yeremiapane/restaurant-guest/client"
	"github.com/yeremiapane/restaurant-guest/config"
	"github.com/yeremiapane/restaurant-guest/router"
	"github.com/yeremiapane/restaurant-guest/store"
	"github.com/yeremiapane/restaurant-guest/utils"
)

func init() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Persisted store device-local (sqlite file)
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open session store: %v", err)
	}

	// Boot sequence: resolve locator -> reconcile -> connect + subscribe
	guest := client.New(cfg, st)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	res, err := guest.Start(ctx)
	cancel()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to start guest session: %v", err)
	}
	utils.InfoLogger.Printf("joined table %d (open=%v, locator=%s)", res.TableID, res.Open, guest.Locator.Current())

	// Facade HTTP lokal untuk rendering layer
	r := router.SetupRouter(guest)
	srv := &http.Server{Addr: ":" + cfg.FacadePort, Handler: r}

	go func() {
		utils.InfoLogger.Printf("facade listening on port %s", cfg.FacadePort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.ErrorLogger.Fatalf("facade server error: %v", err)
		}
	}()

	// Shutdown rapi: koneksi push dibongkar, persisted store dibiarkan utuh
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("shutting down")
	guest.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("facade shutdown: %v", err)
	}
}
