package bank

import (
	"regexp"
	"strings"
)

var (
	mathSpanRe   = regexp.MustCompile(`\$\$[\s\S]*?\$\$|\$([^$]+)\$`)
	leftRightRe  = regexp.MustCompile(`\\left\(.*\\right\)`)
	displayMarks = []string{`\frac`, `\sum`, `\binom`}
)

// PromoteDisplayMath rewrites inline $…$ math that holds tall constructs
// (fractions, sums, binomials, sized parentheses) as display $$…$$ math.
// Existing $$ blocks are left untouched.
func PromoteDisplayMath(text string) string {
	if text == "" {
		return ""
	}
	return mathSpanRe.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasPrefix(m, "$$") {
			return m
		}
		inner := m[1 : len(m)-1]
		if needsDisplay(inner) {
			return "$$" + inner + "$$"
		}
		return m
	})
}

func needsDisplay(math string) bool {
	for _, mark := range displayMarks {
		if strings.Contains(math, mark) {
			return true
		}
	}
	return leftRightRe.MatchString(math)
}
