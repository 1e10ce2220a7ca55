package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
)

type dockingOptions struct {
	lastDocking    string
	classSociety   string
	intervalMonths int
	cycleTo        string
}

// dockingOutput is the JSON shape for the docking command.
type dockingOutput struct {
	NextDocking time.Time `json:"next_docking"`
	Capped      bool      `json:"capped_at_cycle_end"`
}

func newDockingCommand(root *rootOptions) *cobra.Command {
	opts := &dockingOptions{}
	cmd := &cobra.Command{
		Use:   "docking",
		Short: "Project the next dry-docking from the last one",
		Long: "Projects the next dry-docking by adding the docking interval to the\n" +
			"last docking date.  When --cycle-to is given the result is capped at\n" +
			"the cycle end, since the Special Survey requires the ship out of water.",
		Example: `  fleetsurvey docking --last-docking 15/01/2023
  fleetsurvey docking --last-docking 15/01/2023 --cycle-to 10/03/2026 --interval-months 30`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDocking(cmd.OutOrStdout(), root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.lastDocking, "last-docking", "", "last dry-docking date (DD/MM/YYYY), required")
	cmd.Flags().StringVar(&opts.classSociety, "class-society", "", "classification society")
	cmd.Flags().IntVar(&opts.intervalMonths, "interval-months", 0, "override docking interval in months (default 36)")
	cmd.Flags().StringVar(&opts.cycleTo, "cycle-to", "", "special survey cycle end capping the docking (DD/MM/YYYY)")
	_ = cmd.MarkFlagRequired("last-docking")
	return cmd
}

func runDocking(w io.Writer, root *rootOptions, opts *dockingOptions) error {
	last, err := parseDateFlag("last-docking", opts.lastDocking)
	if err != nil {
		return err
	}
	shp := &ship.Ship{
		ClassSociety: opts.classSociety,
		LastDocking:  &last,
	}
	if opts.cycleTo != "" {
		to, err := parseDateFlag("cycle-to", opts.cycleTo)
		if err != nil {
			return err
		}
		shp.SpecialSurveyCycle = &ship.SpecialSurveyCycle{
			FromDate: domainsurvey.AddYearsClamped(to, -5),
			ToDate:   to,
		}
	}

	policy := domainsurvey.StandardDockingPolicy{}
	if opts.intervalMonths > 0 {
		policy.Overrides = map[string]int{strings.ToUpper(opts.classSociety): opts.intervalMonths}
	}

	next, fail := domainsurvey.NextDocking(shp, policy)
	if fail != nil {
		return fmt.Errorf("%s: %s", fail.Code, fail.Reason)
	}

	capped := shp.SpecialSurveyCycle != nil && next.Equal(shp.SpecialSurveyCycle.ToDate)
	out := dockingOutput{NextDocking: *next, Capped: capped}
	return printResult(w, root.output, out, func(w io.Writer) {
		fmt.Fprintf(w, "next docking: %s\n", domainsurvey.FormatDMY(*next))
		if capped {
			fmt.Fprintln(w, "capped at the special survey cycle end")
		}
	})
}
