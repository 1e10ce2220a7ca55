// Package cli implements the fleetsurvey command line tool.  All commands
// run the scheduling engine offline against flag-supplied inputs, so
// surveyors can check a date without a running API server.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
	"github.com/harborwise/fleetsurvey/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// rootOptions carries the global flags shared by all subcommands.
type rootOptions struct {
	output string
	now    string
}

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "fleetsurvey",
		Short:         "Ship survey and certificate schedule calculator",
		Long:          "Offline calculators for survey anniversaries, special survey cycles,\nnext dockings, and per-certificate next surveys.",
		Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	root.PersistentFlags().StringVar(&opts.now, "now", "", "reference date (DD/MM/YYYY), defaults to today")

	root.AddCommand(newPreviewCommand(opts))
	root.AddCommand(newCycleCommand(opts))
	root.AddCommand(newDockingCommand(opts))
	root.AddCommand(newRecalcCommand(opts))
	return root
}

// referenceNow resolves the --now flag, defaulting to the wall clock.
func (o *rootOptions) referenceNow() (time.Time, error) {
	if o.now == "" {
		return time.Now().UTC(), nil
	}
	now, ok := domainsurvey.ParseDate(o.now)
	if !ok {
		return time.Time{}, errors.Validation("unparseable --now value %q", o.now)
	}
	return now, nil
}

// parseDateFlag parses a required date flag.
func parseDateFlag(name, value string) (time.Time, error) {
	t, ok := domainsurvey.ParseDate(value)
	if !ok {
		return time.Time{}, errors.Validation("unparseable --%s value %q", name, value)
	}
	return t, nil
}

// printResult renders v as JSON or via the text function depending on the
// output flag.
func printResult(w io.Writer, format string, v interface{}, text func(io.Writer)) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
