// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/quno-game/quno/internal/auth"
	"github.com/quno-game/quno/internal/handlers"
	"github.com/quno-game/quno/internal/journal"
	"github.com/quno-game/quno/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// The action journal is optional; rooms run fine without Redis.
	if err := journal.Connect(); err != nil {
		logger.Warnf("Action journal disabled: %v", err)
	}

	rs := handlers.NewRoomServer(logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, rs),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
