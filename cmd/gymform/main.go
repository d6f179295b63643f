package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/gymform/internal/cli"
	"github.com/charmbracelet/fang"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// fang prints the error itself.
	if err := fang.Execute(ctx, cli.NewRootCmd(buildApp), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}
