package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// newSymbolsCmd creates the symbols command, which lists known commands.
func newSymbolsCmd() *cobra.Command {
	var (
		prefix     string
		delimiters bool
	)

	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "List the commands and delimiters the parser knows",
		Long: `List the commands and delimiters the parser knows, including those
added by the symbol file named in mathtype.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := newEngine(configFromContext(ctx), loggerFromContext(ctx))
			if err != nil {
				return err
			}
			table := eng.Symbols()
			out := cmd.OutOrStdout()

			names := table.Commands()
			if delimiters {
				names = table.Delimiters()
			}
			count := 0
			for _, name := range names {
				if !strings.HasPrefix(name, prefix) {
					continue
				}
				count++
				if delimiters {
					value, _ := table.Delimiter(name)
					printKeyValue(out, name, value)
					continue
				}
				value := ""
				if a, ok := table.Lookup(name); ok {
					value = a.Base().Nucleus
				} else if accent, ok := table.Accent(name); ok {
					value = accent
				}
				printKeyValue(out, `\`+name, value)
			}
			printDetail(out, "%d entries", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "only list names starting with prefix")
	cmd.Flags().BoolVarP(&delimiters, "delimiters", "d", false, "list \\left/\\right delimiters instead of commands")
	return cmd
}
