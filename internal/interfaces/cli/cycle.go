package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
)

type cycleOptions struct {
	validDate string
	cycleType string
}

// cycleOutput is the JSON shape for the cycle command.
type cycleOutput struct {
	Cycle       ship.SpecialSurveyCycle   `json:"cycle"`
	Checkpoints []domainsurvey.Checkpoint `json:"checkpoints"`
}

func newCycleCommand(root *rootOptions) *cobra.Command {
	opts := &cycleOptions{}
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Derive a 5-year special survey cycle from a certificate expiry",
		Example: `  fleetsurvey cycle --valid-date 10/03/2026
  fleetsurvey cycle --valid-date 29/02/2024 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCycle(cmd.OutOrStdout(), root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.validDate, "valid-date", "", "certificate expiry date (DD/MM/YYYY), required")
	cmd.Flags().StringVar(&opts.cycleType, "cycle-type", domainsurvey.CycleTypeClassification, "cycle type label")
	_ = cmd.MarkFlagRequired("valid-date")
	return cmd
}

func runCycle(w io.Writer, root *rootOptions, opts *cycleOptions) error {
	valid, err := parseDateFlag("valid-date", opts.validDate)
	if err != nil {
		return err
	}
	cycle := domainsurvey.CycleFromValidDate(valid, opts.cycleType)
	checkpoints := domainsurvey.CycleCheckpoints(*cycle)

	out := cycleOutput{Cycle: *cycle, Checkpoints: checkpoints}
	return printResult(w, root.output, out, func(w io.Writer) {
		fmt.Fprintf(w, "cycle: %s .. %s (%s)\n",
			domainsurvey.FormatDMY(cycle.FromDate), domainsurvey.FormatDMY(cycle.ToDate), cycle.CycleType)
		for _, cp := range checkpoints {
			fmt.Fprintf(w, "  %d. %-40s %s\n", cp.Ordinal, cp.Label, domainsurvey.FormatDMY(cp.Date))
		}
	})
}
