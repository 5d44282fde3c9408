package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wanderplan/internal/adapters/observability"
	"wanderplan/internal/bootstrap"
	"wanderplan/internal/domain"
	"wanderplan/internal/shared"
	mysqlrepo "wanderplan/internal/storage/mysql"
)

var errNoAuditStore = errors.New("MYSQL_DSN is not set; the audit store is disabled")

// openAudit connects to the audit store named by MYSQL_DSN.
func openAudit(ctx context.Context) (*mysqlrepo.Repo, func(), error) {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if cfg.MySQLDSN == "" {
		return nil, nil, errNoAuditStore
	}
	var closers []func() error
	repo, err := bootstrap.OpenAudit(ctx, cfg.MySQLDSN, &closers)
	if err != nil {
		return nil, nil, fmt.Errorf("open audit store: %w", err)
	}
	return repo, func() {
		for _, c := range closers {
			_ = c()
		}
	}, nil
}

func newStatsCmd() *cobra.Command {
	var since time.Duration
	var recent int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded generation outcomes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, done, err := openAudit(ctx)
			if err != nil {
				return err
			}
			defer done()

			counts, err := repo.CountBySource(ctx, time.Now().Add(-since).UTC())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Generations in the last %s", since)))
			var total int64
			for _, src := range []domain.Source{domain.SourceModel, domain.SourceDegraded, domain.SourceFallback} {
				fmt.Fprintf(out, "  %-9s %d\n", src, counts[src])
				total += counts[src]
			}
			fmt.Fprintf(out, "  %-9s %d\n", "total", total)

			if recent <= 0 {
				return nil
			}
			rows, err := repo.Recent(ctx, recent)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, headerStyle.Render("Recent"))
			for _, o := range rows {
				failure := string(o.Failure)
				if failure == "" {
					failure = "-"
				}
				fmt.Fprintf(out, "  %s  %-8s %-8s %-9s %-14s %s\n",
					o.CreatedAt.Format(time.RFC3339), o.Provider, o.Tier, o.Source, failure, o.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "window to summarize")
	cmd.Flags().IntVar(&recent, "recent", 10, "number of recent outcomes to list (0 to skip)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the audit table if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// openAudit applies the schema on connect
			_, done, err := openAudit(cmd.Context())
			if err != nil {
				return err
			}
			done()
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("audit schema is up to date"))
			return nil
		},
	}
}
