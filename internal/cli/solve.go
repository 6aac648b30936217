package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/strippack/internal/engine"
	"github.com/piwi3910/strippack/internal/export"
	"github.com/piwi3910/strippack/internal/importer"
	"github.com/piwi3910/strippack/internal/model"
	"github.com/piwi3910/strippack/internal/verify"
)

type solveOptions struct {
	strategy string
	output   string
	pdf      string
	dxf      string
	labels   string

	// For CSV, Excel and DXF inputs, which carry sizes only
	height int
	free   bool
	rotate bool
}

func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOptions

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Pack a problem and print the placement of every rectangle",
		Long: `Pack a problem read from a file (or stdin when omitted or "-").

Text files use the problem format:

  container height: fixed 22
  rotations allowed: no
  number of rectangles: 2
  12 8
  10 9

.csv, .xlsx and .dxf files provide sizes only; use --height or --free and
--rotate to complete the problem.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return c.runSolve(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "ensemble", "strategy name: maxrects, shelf, genetic, free:<name> or ensemble")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the placement listing to a file instead of stdout")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "write a PDF layout report")
	cmd.Flags().StringVar(&opts.dxf, "dxf", "", "write the layout as DXF outlines")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "write a PDF of QR-coded rectangle labels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "fixed container height for size-only inputs")
	cmd.Flags().BoolVar(&opts.free, "free", false, "free container height for size-only inputs")
	cmd.Flags().BoolVar(&opts.rotate, "rotate", false, "allow rotation for size-only inputs")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, path string, opts solveOptions) error {
	params, err := c.loadProblem(cmd.InOrStdin(), path, opts)
	if err != nil {
		return err
	}
	c.Logger.Info("loaded problem", "rectangles", len(params.Rectangles), "variant", params.HeightVariant, "height", params.Height, "rotation", params.RotationAllowed)

	solver, err := engine.New(opts.strategy, c.Config, c.Logger)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	sol, err := engine.Solve(c.Logger, solver, params)
	if errors.Is(err, engine.ErrInvalidArgument) {
		return fmt.Errorf("strategy %q cannot pack this problem: %w", opts.strategy, err)
	}
	if err != nil {
		return fmt.Errorf("failed to pack: %w", err)
	}
	prog.done("packed", "solver", sol.SolvedBy, "width", sol.Width(), "height", sol.Height(), "rate", fmt.Sprintf("%.4f", sol.Rate()))

	if compound, ok := solver.(*engine.Compound); ok {
		for _, a := range compound.Attempts() {
			switch {
			case a.Skipped:
				c.Logger.Debug("attempt skipped", "solver", a.Solver)
			case a.Err != nil:
				c.Logger.Debug("attempt failed", "solver", a.Solver, "err", a.Err)
			case a.Solution != nil:
				c.Logger.Debug("attempt", "solver", a.Solver, "area", a.Solution.Area(), "duration", a.Elapsed)
			}
		}
	}

	if !verify.IsValidSolution(c.Logger, sol) {
		c.Logger.Error("solution failed validation", "solver", sol.SolvedBy)
	}

	if err := c.writeListing(cmd, opts.output, sol); err != nil {
		return err
	}
	return c.writeReports(sol, opts)
}

// loadProblem reads a problem, choosing the reader by file extension.
func (c *CLI) loadProblem(stdin io.Reader, path string, opts solveOptions) (model.Parameters, error) {
	var tabular func(string) importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		tabular = importer.ImportCSV
	case ".xlsx", ".xlsm":
		tabular = importer.ImportExcel
	case ".dxf":
		tabular = importer.ImportDXF
	}

	if tabular == nil {
		r := stdin
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return model.Parameters{}, fmt.Errorf("failed to open problem: %w", err)
			}
			defer f.Close()
			r = f
		}
		return importer.ParseInput(r)
	}

	result := tabular(path)
	for _, w := range result.Warnings {
		c.Logger.Warn(w, "file", path)
	}
	if len(result.Errors) > 0 {
		return model.Parameters{}, fmt.Errorf("failed to import %s: %s", path, strings.Join(result.Errors, "; "))
	}

	variant := model.HeightFixed
	if opts.free {
		variant = model.HeightFree
	} else if opts.height <= 0 {
		return model.Parameters{}, fmt.Errorf("%s lists sizes only: pass --height or --free", path)
	}
	params := result.Parameters(variant, opts.height, opts.rotate)
	if variant == model.HeightFree {
		params.Height = 0
	}
	if err := params.Validate(); err != nil {
		return model.Parameters{}, err
	}
	return params, nil
}

func (c *CLI) writeListing(cmd *cobra.Command, path string, sol *model.Solution) error {
	if path == "" {
		return importer.FormatOutput(cmd.OutOrStdout(), sol)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := importer.FormatOutput(f, sol); err != nil {
		f.Close()
		return err
	}
	c.Logger.Info("wrote listing", "path", path)
	return f.Close()
}

func (c *CLI) writeReports(sol *model.Solution, opts solveOptions) error {
	reports := []struct {
		path  string
		write func(string, *model.Solution) error
	}{
		{opts.pdf, export.ExportPDF},
		{opts.dxf, export.ExportDXF},
		{opts.labels, export.ExportLabels},
	}
	for _, r := range reports {
		if r.path == "" {
			continue
		}
		if err := r.write(r.path, sol); err != nil {
			return fmt.Errorf("failed to write %s: %w", r.path, err)
		}
		c.Logger.Info("wrote report", "path", r.path)
	}
	return nil
}
