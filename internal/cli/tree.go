package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/mathtype/internal/treeviz"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// newTreeCmd creates the tree command, which draws the parsed atom list.
func newTreeCmd() *cobra.Command {
	var (
		format string
		output string
		ranges bool
	)

	cmd := &cobra.Command{
		Use:   "tree [latex|-]",
		Short: "Draw the parsed atom tree as Graphviz DOT or SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			eng, err := newEngine(configFromContext(ctx), loggerFromContext(ctx))
			if err != nil {
				return err
			}
			l, _, err := eng.Parse(input)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			data := []byte(treeviz.ToDOT(l, treeviz.Options{Ranges: ranges}))
			if format == formatSVG {
				if data, err = treeviz.RenderSVG(ctx, string(data)); err != nil {
					return err
				}
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printFile(cmd.OutOrStdout(), output, false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&ranges, "ranges", false, "label atoms with their source ranges")
	return cmd
}
