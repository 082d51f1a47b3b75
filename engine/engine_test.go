package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/ByLCY/mathtype/markup"
)

func TestLayoutCachesResults(t *testing.T) {
	e := New(WithCacheSize(8))
	req := Request{Latex: `\frac{1}{2}`, FontSize: 20}

	first, err := e.Layout(req)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	second, err := e.Layout(req)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if first != second {
		t.Fatalf("identical requests should share one cached result")
	}
	hits, misses, size := e.Stats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Fatalf("Stats() = %d/%d/%d, want 1/1/1", hits, misses, size)
	}

	// a different size is a different layout
	bigger, err := e.Layout(Request{Latex: `\frac{1}{2}`, FontSize: 40})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if bigger == first || bigger.Display.Width <= first.Display.Width {
		t.Fatalf("40pt layout should be a new, wider result")
	}

	e.Reset()
	if _, _, size := e.Stats(); size != 0 {
		t.Fatalf("Reset left %d entries", size)
	}
}

func TestLayoutMode(t *testing.T) {
	e := New()
	tt := []struct {
		name string
		req  Request
		want string
	}{
		{"detected inline", Request{Latex: `$x$`}, "inline"},
		{"detected display", Request{Latex: `\[x\]`}, "display"},
		{"forced inline", Request{Latex: `x`, Mode: "inline"}, "inline"},
		{"default", Request{Latex: `x`}, "display"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			res, err := e.Layout(tc.req)
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if res.Mode != tc.want {
				t.Fatalf("mode = %q, want %q", res.Mode, tc.want)
			}
		})
	}

	display, err := e.Layout(Request{Latex: `\sum_{i=1}^n i`})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	inline, err := e.Layout(Request{Latex: `\sum_{i=1}^n i`, Mode: "inline"})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if inline.Display.Height() >= display.Display.Height() {
		t.Fatalf("inline sum should be shorter than display sum: %g >= %g",
			inline.Display.Height(), display.Display.Height())
	}
}

func TestLayoutErrors(t *testing.T) {
	e := New()
	tt := []struct {
		name string
		req  Request
	}{
		{"empty", Request{Latex: "  "}},
		{"negative size", Request{Latex: "x", FontSize: -1}},
		{"negative width", Request{Latex: "x", MaxWidth: -3}},
		{"bad mode", Request{Latex: "x", Mode: "sideways"}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.Layout(tc.req); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}

	_, err := e.Layout(Request{Latex: `\frac{1}{`})
	var perr *markup.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a *markup.ParseError, got %v", err)
	}
	if perr.Code != markup.ErrMismatchBraces {
		t.Fatalf("code = %v, want %v", perr.Code, markup.ErrMismatchBraces)
	}
	if _, _, size := e.Stats(); size != 0 {
		t.Fatalf("failed layouts must not be cached")
	}
}

func TestLayoutData(t *testing.T) {
	e := New()
	res, err := e.Layout(Request{
		Latex: `x^{${n}}`,
		Data:  map[string]any{"n": float64(2)},
	})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if res.Latex != `x^{2}` {
		t.Fatalf("interpolated latex = %q", res.Latex)
	}
}

func TestSerialize(t *testing.T) {
	e := New()
	got, err := e.Serialize(`\frac12`)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if got != `\frac{1}{2}` {
		t.Fatalf("Serialize = %q", got)
	}
}

func TestLayoutConcurrent(t *testing.T) {
	e := New()
	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Layout(Request{Latex: `a+b`})
			if err != nil {
				t.Errorf("Layout: %v", err)
				return
			}
			results[i] = res
		}()
	}
	wg.Wait()
	for _, r := range results[1:] {
		if r != results[0] {
			t.Fatalf("concurrent callers should converge on the first cached result")
		}
	}
}
