package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newParseCmd creates the parse command, which prints the normalized markup.
func newParseCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "parse [latex|-]",
		Short: "Parse LaTeX math and print its normalized form",
		Long: `Parse LaTeX math and print its normalized form.

The markup is read from the argument or from stdin. Enclosing $...$, \(...\),
$$...$$ and \[...\] delimiters select the math mode.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			eng, err := newEngine(configFromContext(cmd.Context()), logger)
			if err != nil {
				return err
			}
			l, mode, err := eng.Parse(input)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			out := cmd.OutOrStdout()
			latex, _ := eng.Serialize(input)
			if quiet {
				fmt.Fprintln(out, latex)
				return nil
			}
			printKeyValue(out, "latex", latex)
			printKeyValue(out, "mode", mode.String())
			printKeyValue(out, "atoms", fmt.Sprint(l.Len()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the normalized markup")
	return cmd
}
