package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/echonova-backend/internal/app"
	"github.com/yungbote/echonova-backend/internal/platform/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		application.Close(closeCtx)
	}()

	if err := application.Run(ctx); err != nil {
		application.Log.Error("server failed", "error", err)
		return
	}
	application.Log.Info("server stopped")
}
