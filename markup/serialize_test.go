package markup_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/mathtype/atom"
	"github.com/ByLCY/mathtype/markup"
)

var atomOpts = cmp.AllowUnexported(atom.List{}, atom.Core{}, atom.Inner{})

func TestSerializeRoundTrip(t *testing.T) {
	inputs := []string{
		`x^2_3`,
		`\frac{1}{2}+\sqrt[3]{x}`,
		`\sum_{i=1}^{n} i^2`,
		`\int\limits_0^1 f(x)\,dx`,
		`\left( \frac{a}{b} \right)`,
		`\left\{ x \right.`,
		`\mathbf{x} + \alpha`,
		`\text{if } x > 0`,
		`\begin{pmatrix} 1 & 2 \\ 3 & 4 \end{pmatrix}`,
		`\begin{cases} x & y \\ z & w \end{cases}`,
		`\begin{aligned} x &= 1 \\ y &= 2 \end{aligned}`,
		`a & b \\ c & d`,
		`{a \choose b} - \cfrac[l]{1}{2}`,
		`\not\in \hat{x} \overline{y} \underline{z}`,
		`3.14x - -y`,
		`\color{red}{x} \colorbox{yellow}{y}`,
		`\displaystyle \lim_{n \to \infty} a_n \quad \mkern7mu b`,
		`\operatorname{rank} A \pmod{p}`,
		`\dfrac{1}{x} \binom{n}{k}`,
		`\mathbb{R}^n`,
		`\mathbf{x}_i + \mathbf{yz}^2_k w`,
		`\mathrm{d}^{2} \mathrm{e}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			want := mustParse(t, in).Finalized()
			out := markup.Serialize(want)
			again, err := markup.Parse(out)
			if err != nil {
				t.Fatalf("reparse %q: %v", out, err)
			}
			if diff := cmp.Diff(want, again.Finalized(), atomOpts); diff != "" {
				t.Fatalf("round trip through %q changed the atoms (-want +got):\n%s", out, diff)
			}
		})
	}
}

func TestSerializeOutput(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{`x^2_3`, `x^{2}_{3}`},
		{`\frac12`, `\frac{1}{2}`},
		{`a-b`, `a-b`},
		{`\alpha\beta`, `\alpha \beta `},
		{`\sum\nolimits_i`, `\sum \nolimits _{i}`},
		{`x\,y`, `x\,y`},
		{`\left( x \right)`, `\left( x\right) `},
		{`\mathrm{ab}c`, `\mathrm{ab}c`},
		{`\mathbb{R}^n`, `\mathbb{R}^{n}`},
		{`\mathbf{ab}_i c`, `\mathbf{ab}_{i}c`},
		{`\begin{matrix} a & b \end{matrix}`, `\begin{matrix}a&b\end{matrix}`},
	} {
		got := markup.Serialize(mustParse(t, tc.in))
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.in, got, tc.want)
		}
	}
}
