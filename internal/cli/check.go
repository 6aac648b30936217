package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/strippack/internal/importer"
	"github.com/piwi3910/strippack/internal/verify"
)

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <problem> <listing>",
		Short: "Validate a placement listing against its problem",
		Long: `Read a problem and a placement listing as written by solve, then report
overlaps, rectangles outside the strip and an impossible rate.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open problem: %w", err)
			}
			defer pf.Close()
			params, err := importer.ParseInput(pf)
			if err != nil {
				return err
			}

			lf, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open listing: %w", err)
			}
			defer lf.Close()
			sol, err := importer.ParseOutput(lf, params)
			if err != nil {
				return err
			}

			report := verify.Check(sol)
			out := cmd.OutOrStdout()
			for _, p := range report.Problems {
				fmt.Fprintf(out, "%s: %s\n", p.Kind, p.Message)
			}
			if !report.Valid() {
				return fmt.Errorf("listing has %d problem(s)", len(report.Problems))
			}
			fmt.Fprintf(out, "valid: width %d, height %d, rate %.4f\n", sol.Width(), sol.Height(), sol.Rate())
			return nil
		},
	}
}
