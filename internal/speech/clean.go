// Package speech reads questions aloud through the host's text-to-speech
// command.
package speech

import (
	"regexp"
	"strings"
)

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// Applied in order. \leq and \geq precede \le and \ge so the shorter
// commands do not eat their prefixes.
var rewrites = []rewrite{
	{regexp.MustCompile(`\\frac\{([^}]+)\}\{([^}]+)\}`), "$1 over $2"},
	{regexp.MustCompile(`\\binom\{([^}]+)\}\{([^}]+)\}`), "$1 choose $2"},
	{regexp.MustCompile(`\^2\b`), " squared"},
	{regexp.MustCompile(`\^3\b`), " cubed"},
	{regexp.MustCompile(`\^\{([^}]+)\}`), " to the power of $1"},
	{regexp.MustCompile(`_\{([^}]+)\}`), " sub $1"},
	{regexp.MustCompile(`_([a-zA-Z0-9])`), " sub $1"},
	{regexp.MustCompile(`\\sum`), "the sum"},
	{regexp.MustCompile(`\\int`), "the integral"},
	{regexp.MustCompile(`\\infty`), "infinity"},
	{regexp.MustCompile(`\\leq?\b`), "is less than or equal to"},
	{regexp.MustCompile(`\\geq?\b`), "is greater than or equal to"},
	{regexp.MustCompile(`\\times`), "times"},
}

var stripper = strings.NewReplacer("$", "", `\`, "", "{", "", "}", "")

// CleanText turns LaTeX-flavoured problem text into something a speech
// engine can pronounce.
func CleanText(text string) string {
	for _, r := range rewrites {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return stripper.Replace(text)
}

// ReadAloudText is what gets spoken for a question.
func ReadAloudText(title, problem string) string {
	return title + ". " + CleanText(problem)
}
