// CLI entry point for the offline FleetSurvey calculators.
package main

import (
	"fmt"
	"os"

	"github.com/harborwise/fleetsurvey/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
