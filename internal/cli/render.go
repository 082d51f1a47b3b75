package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

// newRenderCmd creates the render command, which writes a PDF.
func newRenderCmd() *cobra.Command {
	var (
		flags   requestFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [latex|-]",
		Short: "Typeset LaTeX math and render it to PDF",
		Long: `Typeset LaTeX math and render it to PDF.

Rendered files are cached (see the [cache] section of mathtype.toml), so
rendering the same formula again is served from the cache.`,
		Args: cobra.MaximumNArgs(1),
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
			svc, err := newService(ctx, configFromContext(ctx), noCache, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			start := time.Now()
			data, cached, err := svc.renderPDF(ctx, req)
			if err != nil {
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logElapsed(logger, start, "Rendered "+output)
			printFile(cmd.OutOrStdout(), output, cached)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "formula.pdf", "output PDF file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
