package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/piwi3910/strippack/internal/engine"
	"github.com/piwi3910/strippack/internal/export"
	"github.com/piwi3910/strippack/internal/generator"
	"github.com/piwi3910/strippack/internal/model"
)

var (
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

type benchOptions struct {
	count      int
	seed       int64
	strategies []string
	xlsx       string
	free       bool
	rotate     bool
}

// solverTotals accumulates one solver's results across the suite.
type solverTotals struct {
	solved  int
	optimal int
	wins    int
	rateSum float64
	elapsed time.Duration
}

func (c *CLI) benchCommand() *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare strategies on generated instances with a known optimum",
		Long: `Generate a suite of optimal-bin instances, run every strategy on each
and print per-instance and per-strategy results. A rate of 1 means the
strategy found the optimal packing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.strategies) == 0 {
				opts.strategies = c.Config.Strategies
			}
			return c.runBench(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 10, "number of instances")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "seed of the first instance")
	cmd.Flags().StringSliceVarP(&opts.strategies, "strategies", "s", nil, "strategies to compare (default from config)")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "write every result to an Excel workbook")
	cmd.Flags().BoolVar(&opts.free, "free", false, "benchmark free height instead of the generated fixed height")
	cmd.Flags().BoolVar(&opts.rotate, "rotate", false, "allow rotation")

	return cmd
}

func (c *CLI) runBench(cmd *cobra.Command, opts benchOptions) error {
	ctx := cmd.Context()
	if opts.count <= 0 {
		return fmt.Errorf("count must be positive, got %d", opts.count)
	}

	solvers, err := engine.Strategies(opts.strategies, c.Config, c.Logger)
	if err != nil {
		return err
	}

	gen := generator.DefaultConfig()
	gen.Rotation = opts.rotate
	suite := generator.Suite(opts.seed, opts.count, gen)

	totals := make(map[string]*solverTotals, len(solvers))
	for _, s := range solvers {
		totals[s.Name()] = &solverTotals{}
	}

	var all []engine.ComparisonResult
	var rows [][]string
	prog := newProgress(c.Logger)

	for i, params := range suite {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if opts.free {
			params.HeightVariant = model.HeightFree
			params.Height = 0
		}
		instance := fmt.Sprintf("#%d", i+1)
		c.Logger.Debug("benchmarking instance", "instance", instance, "rectangles", len(params.Rectangles), "optimal", params.Optimal)

		results := engine.Compare(c.Logger, solvers, params)
		best := engine.Best(results)
		for j := range results {
			res := &results[j]
			t := totals[res.Solver]
			if res.Solution != nil && res.Valid {
				t.solved++
				t.rateSum += res.Rate
				t.elapsed += res.Elapsed
				if res.Solution.Optimal() {
					t.optimal++
				}
				if best != nil && res.Area == best.Area {
					t.wins++
				}
			}
			rows = append(rows, resultRow(instance, *res))
		}
		all = append(all, results...)
	}
	prog.done("benchmark finished", "instances", len(suite), "strategies", len(solvers))

	out := cmd.OutOrStdout()
	renderResults(out, rows)
	renderTotals(out, solvers, totals, len(suite))

	if opts.xlsx != "" {
		if err := export.ExportComparisonXLSX(opts.xlsx, all); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.xlsx, err)
		}
		c.Logger.Info("wrote workbook", "path", opts.xlsx)
	}
	return nil
}

func resultRow(instance string, res engine.ComparisonResult) []string {
	status := export.Status(res)
	if res.Solution == nil {
		return []string{instance, res.Solver, status, "", "", "", ""}
	}
	return []string{
		instance,
		res.Solver,
		status,
		fmt.Sprintf("%.4f", res.Rate),
		fmt.Sprintf("%d", res.Area),
		fmt.Sprintf("%dx%d", res.Width, res.Height),
		res.Elapsed.Round(time.Millisecond).String(),
	}
}

func renderResults(w io.Writer, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Instance", "Strategy", "Status", "Rate", "Area", "Size", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col != 2 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			switch rows[row][2] {
			case "ok":
				return lipgloss.NewStyle().Foreground(colorGreen)
			case "skipped":
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorRed)
			}
		})
	fmt.Fprintln(w, t.Render())
}

func renderTotals(w io.Writer, solvers []engine.Solver, totals map[string]*solverTotals, instances int) {
	var rows [][]string
	for _, s := range solvers {
		t := totals[s.Name()]
		mean, avg := "", ""
		if t.solved > 0 {
			mean = fmt.Sprintf("%.4f", t.rateSum/float64(t.solved))
			avg = (t.elapsed / time.Duration(t.solved)).Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			s.Name(),
			fmt.Sprintf("%d/%d", t.solved, instances),
			fmt.Sprintf("%d", t.optimal),
			fmt.Sprintf("%d", t.wins),
			mean,
			avg,
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Strategy", "Solved", "Optimal", "Best", "Mean rate", "Mean time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, strings.TrimRight(t.Render(), "\n"))
}
