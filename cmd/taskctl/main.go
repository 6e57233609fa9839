package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/St1cky1/taskboard/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.NewDispatcher(cli.DefaultRegistry()).Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
