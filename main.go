package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ByLCY/mathtype/internal/cli"
)

// 由 -ldflags 注入
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cli.SetVersion(version, commit, date)
	code := cli.Main(ctx)
	stop()
	os.Exit(code)
}
