package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"problemtracker/internal/client/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdio := cli.StdIO()
	if err := cli.NewRootCommand(stdio).ExecuteContext(ctx); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(stdio.Err, err)
		}
		stop()
		os.Exit(1)
	}
}
