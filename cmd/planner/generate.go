package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wanderplan/internal/adapters/pdf"
	"wanderplan/internal/domain"
)

type generateOpts struct {
	destination string
	start, end  string
	budget      string
	interests   []string
	notes       string
	user        string
	asJSON      bool
	pdfPath     string
}

func newGenerateCmd() *cobra.Command {
	o := &generateOpts{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one itinerary",
		Example: `  planner generate --destination "Lisbon, Portugal" --start 2025-09-10 --end 2025-09-12 \
    --budget Budget --interests Food,History --notes "No activities before 10am"
  planner generate -d "Paris, France" --start 2025-06-01 --end 2025-06-03 --budget Luxury -i Art --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := buildEnv(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			res, err := e.planner.Generate(ctx, domain.TripRequest{
				Destination:     o.destination,
				StartDate:       o.start,
				EndDate:         o.end,
				BudgetTier:      domain.BudgetTier(o.budget),
				Interests:       o.interests,
				SchedulingNotes: o.notes,
				RequesterID:     o.user,
			})
			if err != nil {
				var ve *domain.ValidationError
				if errors.As(err, &ve) {
					return fmt.Errorf("invalid trip: %s", ve.Reason)
				}
				return err
			}

			if o.pdfPath != "" {
				b, err := pdf.Render(res.Itinerary)
				if err != nil {
					return err
				}
				if err := os.WriteFile(o.pdfPath, b, 0o644); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if o.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Itinerary)
			}
			fmt.Fprint(out, renderItinerary(res))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.destination, "destination", "d", "", "destination, e.g. \"Kyoto, Japan\"")
	f.StringVar(&o.start, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&o.end, "end", "", "end date (YYYY-MM-DD)")
	f.StringVarP(&o.budget, "budget", "b", string(domain.TierModerate), "budget tier: Budget, Moderate or Luxury")
	f.StringSliceVarP(&o.interests, "interests", "i", nil, "comma-separated interests")
	f.StringVar(&o.notes, "notes", "", "free-text scheduling preferences")
	f.StringVar(&o.user, "user", "", "requester id (only changes prompt phrasing)")
	f.BoolVar(&o.asJSON, "json", false, "print the itinerary as JSON")
	f.StringVar(&o.pdfPath, "pdf", "", "also write a PDF to this path")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
