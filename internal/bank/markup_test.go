package bank

import "testing"

func TestPromoteDisplayMath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "no math here", "no math here"},
		{"simple inline stays", "Let $X$ be fair.", "Let $X$ be fair."},
		{"fraction promoted", "Each has $\\frac{1}{6}$ chance.", "Each has $$\\frac{1}{6}$$ chance."},
		{"sum promoted", "$\\sum_i x_i$", "$$\\sum_i x_i$$"},
		{"binom promoted", "$\\binom{n}{k}$ ways", "$$\\binom{n}{k}$$ ways"},
		{"sized parens promoted", "$\\left(a+b\\right)^2$", "$$\\left(a+b\\right)^2$$"},
		{"display untouched", "$$\\frac{a}{b}$$", "$$\\frac{a}{b}$$"},
		{"mixed", "$x$ and $\\frac{1}{2}$ and $$y$$", "$x$ and $$\\frac{1}{2}$$ and $$y$$"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PromoteDisplayMath(tt.in); got != tt.want {
				t.Fatalf("PromoteDisplayMath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
