package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ideaforge/newsminer/internal/cli"
	"github.com/ideaforge/newsminer/internal/config"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 15*time.Second, "Store check timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	articleStore, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Store connection failed: %v\n", err)
		return 1
	}
	defer closeStore()

	if _, err := articleStore.Recent(ctx, 1); err != nil {
		fmt.Fprintf(os.Stderr, "Store check failed: %v\n", err)
		return 1
	}

	fmt.Println("article store OK")
	return 0
}
