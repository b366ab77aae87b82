package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/oceanic/internal/cli"
	"github.com/samvad-hq/oceanic/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand(os.Stdout, os.Stderr, nil)
	err := cmd.ExecuteContext(ctx)
	_ = logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "oceanctl: %v\n", err)
		stop()
		os.Exit(1)
	}
}
