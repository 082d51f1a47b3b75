package treeviz

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ByLCY/mathtype/markup"
)

func TestToDOT(t *testing.T) {
	l, err := markup.Parse(`\frac{a}{b}^2 + \sqrt[3]{x}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dot := ToDOT(l, Options{Ranges: true})

	for _, want := range []string{
		"digraph atoms {",
		`label="numerator"`,
		`label="denominator"`,
		`label="superscript"`,
		`label="degree"`,
		`label="radicand"`,
		"fraction",
		"[0,",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("DOT output not closed")
	}
}

func TestToDOTTable(t *testing.T) {
	l, err := markup.Parse(`\begin{pmatrix} a & b \\ c & d \end{pmatrix}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dot := ToDOT(l, Options{})
	for _, want := range []string{"pmatrix 2x2", `label="cell 1,1"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
	if strings.Contains(dot, "[0,") {
		t.Errorf("ranges should be omitted by default")
	}
}

func TestToDOTNil(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if strings.Count(dot, "shape=ellipse") != 1 {
		t.Fatalf("nil list should produce exactly the root node:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	l, err := markup.Parse(`x^2`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	svg, err := RenderSVG(context.Background(), ToDOT(l, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Fatalf("output is not SVG")
	}

	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Fatalf("malformed DOT should fail")
	}
}
