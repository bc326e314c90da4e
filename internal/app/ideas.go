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
	"github.com/ideaforge/newsminer/internal/logging"
)

func runIdeas(args []string) int {
	fs := flag.NewFlagSet("ideas", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Overall run timeout")

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

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	comps, err := buildComponents(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("ideas failed to build components")
		fmt.Fprintf(os.Stderr, "Failed to build components: %v\n", err)
		return 1
	}
	defer comps.close()

	generated, err := comps.pipeline.Ideas(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("idea generation failed")
		fmt.Fprintf(os.Stderr, "Idea generation failed: %v\n", err)
		return 1
	}

	for _, idea := range generated {
		fmt.Println(idea)
	}
	return 0
}
