// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/pointerflow/cmd"
)

// main lets `go install github.com/xkilldash9x/pointerflow` produce a
// non-interactive binary. cmd/pointerflow adds the interactive shell.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
