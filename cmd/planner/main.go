package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wanderplan/internal/adapters/observability"
	"wanderplan/internal/app"
	"wanderplan/internal/bootstrap"
	"wanderplan/internal/domain"
	"wanderplan/internal/shared"
)

type generator interface {
	Generate(ctx context.Context, req domain.TripRequest) (app.Result, error)
}

// env is what every subcommand runs against; tests swap buildEnv.
type env struct {
	cfg     shared.Config
	planner generator
	close   func()
}

var buildEnv = func(ctx context.Context) (*env, error) {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	pipe := bootstrap.New(ctx, cfg)
	return &env{cfg: cfg, planner: pipe.Planner, close: pipe.Close}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "wanderplan - travel itinerary generator",
		Long: `planner generates day-by-day travel itineraries from the command line, using the same
pipeline as the HTTP API: validation, prompt, model call, and the rule-based fallback
whenever the model is unreachable.

Configuration comes from the environment (or a .env file): MODEL_PROVIDER, MODEL_API_KEY,
MODEL_BASE_URL, MODEL_NAME, GEMINI_API_KEY, MYSQL_DSN, REDIS_ADDR and friends.`,
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newBatchCmd(), newStatsCmd(), newMigrateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
