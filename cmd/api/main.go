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

	"github.com/gp3-app/calgo/internal/agent"
	"github.com/gp3-app/calgo/internal/compliance"
	"github.com/gp3-app/calgo/internal/config"
	"github.com/gp3-app/calgo/internal/database"
	"github.com/gp3-app/calgo/internal/handlers"
	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/registry"
	"github.com/gp3-app/calgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema (Critical for Zero-Config)
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Equipment{},
		&models.CalibrationEvent{},
		&models.Certificate{},
		&models.OnboardingSession{},
		&models.EmailLog{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Wire services
	reg := registry.NewService(db)

	var model agent.Generator
	if cfg.Gemini.APIKey != "" {
		client, err := agent.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Printf("⚠️ Agent: failed to init model, answers will be unavailable: %v", err)
		} else {
			defer client.Close()
			model = client
			log.Printf("✅ Agent: model %s ready", cfg.Gemini.Model)
		}
	} else {
		log.Println("⚠️ Agent: GEMINI_API_KEY not set, answers will be unavailable")
	}
	gw := agent.NewGateway(model, reg)

	hub := websocket.NewHub()
	go hub.Run()

	// 5. Background compliance sweep: push attention events to any
	// tenant that has listeners connected
	go func() {
		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			var companies []models.Company
			if err := db.Where("is_active = ?", true).Find(&companies).Error; err != nil {
				log.Printf("Sweep: failed to list companies: %v", err)
				continue
			}
			for _, company := range companies {
				if hub.ListenerCount(company.ID) == 0 {
					continue
				}
				equipment, err := reg.List(company.ID)
				if err != nil {
					log.Printf("Sweep: failed to scan %s: %v", company.Slug, err)
					continue
				}
				overdue := 0
				for _, eq := range equipment {
					if compliance.Status(eq.Status) == compliance.StatusOverdue {
						overdue++
					}
				}
				if overdue > 0 {
					hub.BroadcastToCompany(company.ID, websocket.Event{
						Type:    "attention_required",
						Message: fmt.Sprintf("%d tool(s) are overdue for calibration.", overdue),
						At:      time.Now().UTC(),
					})
				}
			}
		}
	}()

	// 6. Set up HTTP router
	router := handlers.NewRouter(db, cfg, reg, gw, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
