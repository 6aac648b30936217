package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/strippack/internal/generator"
	"github.com/piwi3910/strippack/internal/importer"
	"github.com/piwi3910/strippack/internal/model"
)

type generateOptions struct {
	seed    int64
	random  int
	maxSide int
	free    bool
	rotate  bool
	output  string
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic problem in the text format",
		Long: `Write a synthetic problem. By default the rectangles are cut from a
random grid so a perfect packing is known to exist; --random N draws N
rectangles with independent sizes instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&opts.random, "random", 0, "draw this many independent rectangles")
	cmd.Flags().IntVar(&opts.maxSide, "max-side", 50, "largest side for --random")
	cmd.Flags().BoolVar(&opts.free, "free", false, "free container height")
	cmd.Flags().BoolVar(&opts.rotate, "rotate", false, "allow rotation")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts generateOptions) error {
	if opts.random < 0 {
		return fmt.Errorf("--random must not be negative, got %d", opts.random)
	}

	variant := model.HeightFixed
	if opts.free {
		variant = model.HeightFree
	}

	var params model.Parameters
	if opts.random > 0 {
		params = generator.Random(opts.seed, opts.random, opts.maxSide, variant, opts.rotate)
	} else {
		cfg := generator.DefaultConfig()
		cfg.Rotation = opts.rotate
		params = generator.OptimalBin(opts.seed, cfg)
		if opts.free {
			params.HeightVariant = model.HeightFree
			params.Height = 0
		}
	}
	c.Logger.Debug("generated problem", "rectangles", len(params.Rectangles), "variant", params.HeightVariant, "height", params.Height)

	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.output, err)
		}
		defer f.Close()
		w = f
	}
	if err := importer.FormatInput(w, params); err != nil {
		return err
	}
	if opts.output != "" {
		c.Logger.Info("wrote problem", "path", opts.output, "rectangles", len(params.Rectangles))
	}
	return nil
}
