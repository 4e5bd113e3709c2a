package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quantsim/internal/bank"
)

var sampleQuestions = []bank.Question{
	{ID: "1.1", Title: "Coin Flips", Chapter: "Probability", ProblemText: "Flip a fair coin until two heads in a row.", Hint: "Condition on the first flip."},
	{ID: "2.1", Title: "Put-Call Parity", Chapter: "Derivatives", ProblemText: "Derive put-call parity for European options."},
}

func TestWriteQuestionsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeQuestions(&buf, sampleQuestions, "table"))

	out := buf.String()
	assert.Contains(t, out, "Coin Flips")
	assert.Contains(t, out, "Put-Call Parity")
	assert.Contains(t, out, "2 questions")
	assert.Equal(t, 1, strings.Count(out, "✓"))
}

func TestWriteQuestionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeQuestions(&buf, nil, "table"))
	assert.Equal(t, "No questions found.\n", buf.String())
}

func TestWriteQuestionsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeQuestions(&buf, sampleQuestions, "json"))

	var got []bank.Question
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleQuestions, got)
}

func TestWriteQuestionsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeQuestions(&buf, sampleQuestions, "yaml"))
	assert.Contains(t, buf.String(), "problem_text: Flip a fair coin")

	var got []bank.Question
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleQuestions, got)
}

func TestWriteQuestionsUnknownFormat(t *testing.T) {
	err := writeQuestions(&bytes.Buffer{}, sampleQuestions, "xml")
	assert.Error(t, err)
}

func TestFilterChapter(t *testing.T) {
	got := filterChapter(sampleQuestions, "Derivatives")
	require.Len(t, got, 1)
	assert.Equal(t, "2.1", got[0].ID)

	assert.Empty(t, filterChapter(sampleQuestions, "Brainteasers"))
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		usd  float64
		want string
	}{
		{0.001, "$0.0010"},
		{0.5, "$0.50"},
		{12.5, "$12.50"},
	}
	for _, tt := range tests {
		if got := formatCost(tt.usd); got != tt.want {
			t.Errorf("formatCost(%v) = %q, want %q", tt.usd, got, tt.want)
		}
	}
}
