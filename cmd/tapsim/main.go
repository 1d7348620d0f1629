// tapsim runs the in-memory tapcard API simulator for local development.
// State lives in process memory and is discarded on exit.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/tapcard/tapcard/internal/apistub"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Info(".env file loaded")
	}

	addr := os.Getenv("TAPSIM_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{})
	logger.SetLevel(log.InfoLevel)

	stub := apistub.New(apistub.WithLogger(logger))

	adminEmail := os.Getenv("TAPSIM_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@tapcard.local"
	}
	adminPassword := os.Getenv("TAPSIM_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin"
	}
	admin := stub.SeedAdmin("admin", adminEmail, adminPassword)
	log.Infof("seeded admin %s (%s)", admin.Username, adminEmail)

	server := &http.Server{
		Addr:         addr,
		Handler:      stub,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("tapcard simulator running at %s", addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("simulator shutdown failed: %v", err)
	}
	log.Info("simulator stopped")
}
