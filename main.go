package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmorgan81/imagebot/internal/config"
	"github.com/dmorgan81/imagebot/internal/handler"
	"github.com/dmorgan81/imagebot/internal/inject"
	"github.com/dmorgan81/imagebot/internal/log"
	"github.com/samber/do"
)

func main() {
	logger := log.New(os.Stderr, slog.LevelInfo)
	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	ctx := log.NewContext(context.Background(), logger)
	injector := inject.Setup(ctx, cfg)
	handler := do.MustInvoke[*handler.Handler](injector)
	lambda.StartWithOptions(handler.Handle, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
		_ = injector.Shutdown()
	}))
}
