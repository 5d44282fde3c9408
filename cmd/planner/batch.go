package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"wanderplan/internal/domain"
)

type batchResult struct {
	file   string
	out    string
	source domain.Source
	err    error
}

func newBatchCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <request.json>...",
		Short: "Generate itineraries for many request files",
		Long: `batch reads one trip request (the same JSON body the API accepts) per file and writes
<name>.itinerary.json beside each input. At most --workers requests run at once.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			ctx := cmd.Context()
			e, err := buildEnv(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			results := runBatch(ctx, e.planner, files, workers)

			out := cmd.OutOrStdout()
			failed := 0
			counts := map[domain.Source]int{}
			for _, r := range results {
				if r.err != nil {
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", warnStyle.Render("FAIL"), r.file, r.err)
					continue
				}
				counts[r.source]++
				fmt.Fprintf(out, "%s %s -> %s %s\n", okStyle.Render("ok  "), r.file, r.out, mutedStyle.Render("("+string(r.source)+")"))
			}
			fmt.Fprintf(out, "\n%d done: %d model, %d degraded, %d fallback, %d failed\n",
				len(results), counts[domain.SourceModel], counts[domain.SourceDegraded], counts[domain.SourceFallback], failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d requests failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "maximum concurrent generations")
	return cmd
}

// runBatch keeps input order in its results; concurrency is bounded by a weighted semaphore.
func runBatch(ctx context.Context, g generator, files []string, workers int) []batchResult {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	results := make([]batchResult, len(files))
	var wg sync.WaitGroup

	for i, f := range files {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = batchResult{file: f, err: err}
			continue
		}
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = generateFile(ctx, g, file)
		}(i, f)
	}
	wg.Wait()
	return results
}

func generateFile(ctx context.Context, g generator, file string) batchResult {
	r := batchResult{file: file}

	raw, err := os.ReadFile(file)
	if err != nil {
		r.err = err
		return r
	}
	var req domain.TripRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		r.err = fmt.Errorf("decode request: %w", err)
		return r
	}

	res, err := g.Generate(ctx, req)
	if err != nil {
		r.err = err
		return r
	}

	body, err := json.MarshalIndent(res.Itinerary, "", "  ")
	if err != nil {
		r.err = err
		return r
	}
	r.out = outputPath(file)
	if err := os.WriteFile(r.out, append(body, '\n'), 0o644); err != nil {
		r.err = err
		return r
	}
	r.source = res.Source
	log.Debug().Str("file", file).Str("id", res.ID).Str("source", string(res.Source)).Msg("batch item done")
	return r
}

func outputPath(in string) string {
	base := strings.TrimSuffix(in, filepath.Ext(in))
	return base + ".itinerary.json"
}
