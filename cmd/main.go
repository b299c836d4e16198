package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"ygo-duel-bot/handler"
	"ygo-duel-bot/internal/integrations/gemini"
	"ygo-duel-bot/internal/integrations/line"
	"ygo-duel-bot/internal/integrations/paramstore"
	"ygo-duel-bot/internal/repository"
	"ygo-duel-bot/internal/usecase"
)

func main() {
	ctx := context.Background()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// ---- Configuration (read only here) ----
	paramPrefix := strings.TrimRight(mustEnv("PARAM_PREFIX"), "/")
	modelID := envString("MODEL_ID", "gemini-2.5-flash")
	sessionTable := os.Getenv("SESSION_TABLE")
	aiTimeout := time.Duration(envInt("AI_TIMEOUT_SECONDS", 20)) * time.Second
	lineTimeout := time.Duration(envInt("LINE_TIMEOUT_SECONDS", 10)) * time.Second

	// ---- AWS SDK config ----
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Secrets ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	secretName := paramPrefix + "/line/channel-secret"
	tokenName := paramPrefix + "/line/channel-access-token"
	secrets, err := ssmClient.GetParameters(ctx, secretName, tokenName)
	if err != nil {
		slog.Error("failed to load LINE credentials", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	lineClient, err := line.NewClient(secrets[tokenName], line.WithHTTPClient(&http.Client{Timeout: lineTimeout}))
	if err != nil {
		slog.Error("failed to create LINE client", "err", err)
		os.Exit(1)
	}
	geminiClient, err := gemini.NewClient(ssmClient, paramPrefix)
	if err != nil {
		slog.Error("failed to create Gemini client", "err", err)
		os.Exit(1)
	}

	var store usecase.SessionStore = repository.NewMemory()
	if sessionTable != "" {
		store, err = repository.New(awsdynamodb.NewFromConfig(cfg), sessionTable)
		if err != nil {
			slog.Error("failed to create session store", "err", err)
			os.Exit(1)
		}
	}
	slog.Info("session store configured", "durable", sessionTable != "", "model", modelID)

	// ---- Handler ----
	svc, err := usecase.NewService(store, geminiClient, lineClient, modelID, usecase.WithAITimeout(aiTimeout))
	if err != nil {
		slog.Error("failed to create service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(secrets[secretName], svc, lineClient)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
