package bank

// Question is one flashcard from the bank. Markup in the text fields uses
// LaTeX between $ or $$ delimiters.
type Question struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	ProblemText string `json:"problem_text" yaml:"problem_text"`
	Hint        string `json:"hint,omitempty" yaml:"hint,omitempty"`
	Solution    string `json:"solution,omitempty" yaml:"solution,omitempty"`
	Chapter     string `json:"chapter" yaml:"chapter"`
	GraphURL    string `json:"graph_url,omitempty" yaml:"graph_url,omitempty"`
}

// HasHint reports whether the question ships a hint.
func (q Question) HasHint() bool { return q.Hint != "" }

// HasSolution reports whether the question ships an official solution.
func (q Question) HasSolution() bool { return q.Solution != "" }
