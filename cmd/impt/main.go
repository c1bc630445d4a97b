// impt is the command line tool for the IoT platform.
//
// Build with: go build -ldflags "-X github.com/nerrad567/impt/internal/cli.Version=1.0.0"
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/impt/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
