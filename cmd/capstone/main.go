// Command capstone answers questions about a folder of research papers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/config/file"
	"github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driving/cli"
	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
)

// homeEnv overrides the ~/.capstone directory.
const homeEnv = "CAPSTONE_HOME"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Ignoring .env: %v", err)
	}

	home := os.Getenv(homeEnv)
	if home == "" {
		var err error
		if home, err = file.DefaultConfigDir(); err != nil {
			return err
		}
	}

	b, err := newBackend(home)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx, b)
}
