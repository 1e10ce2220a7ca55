package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborwise/fleetsurvey/pkg/errors"
)

type recalcOptions struct {
	server  string
	timeout time.Duration
}

func newRecalcCommand(root *rootOptions) *cobra.Command {
	opts := &recalcOptions{}
	cmd := &cobra.Command{
		Use:     "recalc <ship-id>",
		Short:   "Trigger a ship recalculation on a running API server",
		Args:    cobra.ExactArgs(1),
		Example: `  fleetsurvey recalc 3f2a... --server http://localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecalc(cmd.Context(), cmd.OutOrStdout(), opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:8080", "API server base URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "request timeout")
	return cmd
}

func runRecalc(ctx context.Context, w io.Writer, opts *recalcOptions, shipID string) error {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/v1/ships/%s/recalculate", opts.server, shipID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrCodeInternal, "recalculation failed: %s: %s", resp.Status, body)
	}
	_, err = w.Write(append(body, '\n'))
	return err
}
