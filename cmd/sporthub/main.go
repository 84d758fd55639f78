package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/mcoot/sporthub/internal/cli"
)

func main() {
	// Cancel on interrupt so long-running commands such as watch exit cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
