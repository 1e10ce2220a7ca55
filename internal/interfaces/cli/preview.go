package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
	"github.com/harborwise/fleetsurvey/pkg/errors"
)

type previewOptions struct {
	validDate        string
	certName         string
	certType         string
	anniversary      string
	cycleFrom        string
	cycleTo          string
	lastIntermediate string
}

func newPreviewCommand(root *rootOptions) *cobra.Command {
	opts := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute the next survey for a single certificate",
		Long: "Runs the next-survey algorithm for one certificate described entirely\n" +
			"by flags.  Ship context (anniversary, cycle, intermediate history) is\n" +
			"optional; without it the schedule is derived from the certificate alone.",
		Example: `  fleetsurvey preview --valid-date 10/03/2026 --cert-name "Cargo Ship Safety Construction Certificate"
  fleetsurvey preview --valid-date 10/03/2026 --anniversary 10/03 --cycle-from 10/03/2021 --cycle-to 10/03/2026 --now 01/06/2024`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd.OutOrStdout(), root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.validDate, "valid-date", "", "certificate expiry date (DD/MM/YYYY), required")
	cmd.Flags().StringVar(&opts.certName, "cert-name", "Certificate", "certificate title")
	cmd.Flags().StringVar(&opts.certType, "cert-type", "Full Term", "certificate type (Full Term, Conditional, ...)")
	cmd.Flags().StringVar(&opts.anniversary, "anniversary", "", "ship anniversary anchor as DD/MM")
	cmd.Flags().StringVar(&opts.cycleFrom, "cycle-from", "", "special survey cycle start (DD/MM/YYYY)")
	cmd.Flags().StringVar(&opts.cycleTo, "cycle-to", "", "special survey cycle end (DD/MM/YYYY)")
	cmd.Flags().StringVar(&opts.lastIntermediate, "last-intermediate", "", "last completed intermediate survey (DD/MM/YYYY)")
	_ = cmd.MarkFlagRequired("valid-date")
	return cmd
}

func runPreview(w io.Writer, root *rootOptions, opts *previewOptions) error {
	now, err := root.referenceNow()
	if err != nil {
		return err
	}
	valid, err := parseDateFlag("valid-date", opts.validDate)
	if err != nil {
		return err
	}

	cert := &certificate.Certificate{
		CertName:  opts.certName,
		CertType:  certificate.ParseCertType(opts.certType),
		ValidDate: &valid,
	}

	shp, err := shipFromFlags(opts)
	if err != nil {
		return err
	}

	result := domainsurvey.NextSurveyForCertificate(cert, shp, now)
	return printResult(w, root.output, result, func(w io.Writer) {
		if !result.Scheduled() {
			fmt.Fprintf(w, "unresolved: %s\n", result.Failure)
			fmt.Fprintf(w, "reasoning:  %s\n", result.Reasoning)
			return
		}
		fmt.Fprintf(w, "next survey: %s\n", result.NextSurvey)
		fmt.Fprintf(w, "type:        %s\n", result.NextSurveyType)
		fmt.Fprintf(w, "reasoning:   %s\n", result.Reasoning)
	})
}

// shipFromFlags builds an in-memory ship carrying only the scheduling context
// the flags describe, or nil when no ship flag was given.
func shipFromFlags(opts *previewOptions) (*ship.Ship, error) {
	if opts.anniversary == "" && opts.cycleFrom == "" && opts.cycleTo == "" && opts.lastIntermediate == "" {
		return nil, nil
	}
	shp := &ship.Ship{}
	if opts.anniversary != "" {
		anchor, err := parseAnniversary(opts.anniversary)
		if err != nil {
			return nil, err
		}
		shp.AnniversaryDate = anchor
	}
	if opts.cycleFrom != "" || opts.cycleTo != "" {
		if opts.cycleFrom == "" || opts.cycleTo == "" {
			return nil, errors.Validation("--cycle-from and --cycle-to must be given together")
		}
		from, err := parseDateFlag("cycle-from", opts.cycleFrom)
		if err != nil {
			return nil, err
		}
		to, err := parseDateFlag("cycle-to", opts.cycleTo)
		if err != nil {
			return nil, err
		}
		if !from.Before(to) {
			return nil, errors.Validation("--cycle-from must precede --cycle-to")
		}
		shp.SpecialSurveyCycle = &ship.SpecialSurveyCycle{
			FromDate:             from,
			ToDate:               to,
			CycleType:            domainsurvey.CycleTypeClassification,
			IntermediateRequired: true,
		}
	}
	if opts.lastIntermediate != "" {
		done, err := parseDateFlag("last-intermediate", opts.lastIntermediate)
		if err != nil {
			return nil, err
		}
		shp.LastIntermediateSurvey = &done
	}
	return shp, nil
}

// parseAnniversary parses a DD/MM anchor.
func parseAnniversary(s string) (*ship.AnniversaryDate, error) {
	t, err := time.Parse("02/01", s)
	if err != nil {
		return nil, errors.Validation("anniversary must be DD/MM, got %q", s)
	}
	anchor := &ship.AnniversaryDate{
		Day:                   t.Day(),
		Month:                 int(t.Month()),
		SourceCertificateType: "manual",
	}
	if err := anchor.Validate(); err != nil {
		return nil, err
	}
	return anchor, nil
}
