package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/mathtype/engine"
	"github.com/ByLCY/mathtype/layout"
)

// requestFlags holds the typesetting flags shared by layout and render.
type requestFlags struct {
	size     float64
	mode     string
	maxWidth string // a length such as 300, 80mm or 12em
	cramped  bool
	spaced   bool
	data     string // JSON bound to ${path} placeholders
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.size, "size", "s", 0, "font size in points (default from config)")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "math mode: display or inline (default: detect from delimiters)")
	cmd.Flags().StringVarP(&f.maxWidth, "max-width", "w", "", "break lines wider than this (e.g. 300, 80mm, 12em; default no limit)")
	cmd.Flags().BoolVar(&f.cramped, "cramped", false, "typeset in cramped style")
	cmd.Flags().BoolVar(&f.spaced, "spaced", false, "add delimiter spacing at both ends")
	cmd.Flags().StringVar(&f.data, "data", "", "JSON data for ${path} placeholders")
}

// request builds the engine request. Font-relative max widths are resolved
// against the --size flag, or defaultSize when it is unset.
func (f *requestFlags) request(latex string, defaultSize float64) (engine.Request, error) {
	req := engine.Request{
		Latex:    latex,
		FontSize: f.size,
		Mode:     f.mode,
		Cramped:  f.cramped,
		Spaced:   f.spaced,
	}
	if f.maxWidth != "" {
		width, err := layout.ParseLength(f.maxWidth)
		if err != nil {
			return req, fmt.Errorf("parse --max-width: %w", err)
		}
		size := f.size
		if size == 0 {
			size = defaultSize
		}
		req.MaxWidth = width.ToPT(size)
	}
	if f.data != "" {
		if err := json.Unmarshal([]byte(f.data), &req.Data); err != nil {
			return req, fmt.Errorf("parse --data: %w", err)
		}
	}
	return req, nil
}
