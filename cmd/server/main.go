// Command server runs the webhook as a plain HTTP server for local
// development, e.g. behind an ngrok tunnel. Sessions live in memory.
package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"ygo-duel-bot/handler"
	"ygo-duel-bot/internal/integrations/gemini"
	"ygo-duel-bot/internal/integrations/line"
	"ygo-duel-bot/internal/integrations/paramstore"
	"ygo-duel-bot/internal/repository"
	"ygo-duel-bot/internal/usecase"
)

func main() {
	secret := mustEnv("LINE_CHANNEL_SECRET")
	token := mustEnv("LINE_CHANNEL_ACCESS_TOKEN")
	keys := paramstore.Static{"/gemini-api-key": mustEnv("GEMINI_API_KEY")}
	modelID := os.Getenv("MODEL_ID")
	if modelID == "" {
		modelID = "gemini-2.5-flash"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	lineClient, err := line.NewClient(token)
	if err != nil {
		slog.Error("failed to create LINE client", "err", err)
		os.Exit(1)
	}
	geminiClient, err := gemini.NewClient(keys, "")
	if err != nil {
		slog.Error("failed to create Gemini client", "err", err)
		os.Exit(1)
	}
	svc, err := usecase.NewService(repository.NewMemory(), geminiClient, lineClient, modelID)
	if err != nil {
		slog.Error("failed to create service", "err", err)
		os.Exit(1)
	}
	h, err := handler.NewHandler(secret, svc, lineClient)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	r := gin.Default()
	handler.RegisterRoutes(r, h)

	slog.Info("starting server", "addr", "http://localhost:"+port)
	if err := r.Run(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}
