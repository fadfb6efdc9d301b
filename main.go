package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/hellodine/config"
	"github.com/yeremiapane/hellodine/database"
	"github.com/yeremiapane/hellodine/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	utils.InitLogger(cfg.GinMode)
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.JWTSecret == "" {
		utils.ErrorLogger.Fatal("JWT_SECRET is required")
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.SeedDemo {
		if err := database.SeedDemo(db, cfg.DemoPhoneID); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	app, err := NewApp(cfg, db, nil)
	if err != nil {
		utils.ErrorLogger.Fatal(err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server shutdown: %v", err)
	}
	// Pesan yang sudah diterima tetap dibalas sebelum proses keluar
	app.Webhook.Wait()
}
