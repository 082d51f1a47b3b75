package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/mathtype/layout"
)

// newLayoutCmd creates the layout command, which writes the display tree as JSON.
func newLayoutCmd() *cobra.Command {
	var (
		flags  requestFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [latex|-]",
		Short: "Typeset LaTeX math and write the display tree as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			req, err := flags.request(input, configFromContext(cmd.Context()).FontSize)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			svc, err := newService(ctx, configFromContext(ctx), true, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			start := time.Now()
			res, err := svc.layout(req)
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}
			if output == "" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			if err := layout.WriteDebugJSON(res.Display, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logElapsed(logger, start, "Typeset "+res.Latex)
			printFile(cmd.OutOrStdout(), output, false)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
