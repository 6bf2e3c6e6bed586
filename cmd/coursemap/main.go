// ABOUTME: Entry point for the coursemap CLI.
// ABOUTME: Loads .env files, installs signal handling and maps command errors to exit codes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	loadDotEnvAuto()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newCLI(os.Stdout, os.Stderr), os.Args[1:])
	stop()
	os.Exit(code)
}
