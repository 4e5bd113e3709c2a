package bank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed data/questions.json
var embeddedQuestions []byte

// MinProblemLength is the shortest problem text kept by Filter, exclusive.
// Extraction left many fragments shorter than this in the raw bank.
const MinProblemLength = 20

// Format names a bank encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Bank is an immutable, ordered set of questions.
type Bank struct {
	questions []Question
	byID      map[string]int
}

// New builds a bank from already filtered questions.
func New(questions []Question) *Bank {
	b := &Bank{
		questions: questions,
		byID:      make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		if _, dup := b.byID[q.ID]; !dup {
			b.byID[q.ID] = i
		}
	}
	return b
}

// Default returns the bank compiled into the binary.
func Default() (*Bank, error) {
	qs, err := Parse(embeddedQuestions, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("embedded bank: %w", err)
	}
	return New(Filter(qs)), nil
}

// Load returns the bank at path, or the embedded bank when path is empty.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Default()
	}
	qs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(Filter(qs)), nil
}

// LoadFile reads a bank file. The encoding is chosen by extension: .yaml and
// .yml are YAML, anything else JSON.
func LoadFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	qs, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return qs, nil
}

// Parse decodes and schema-validates a bank. Filtering is left to the caller.
func Parse(data []byte, format Format) ([]Question, error) {
	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown bank format %q", format)
	}

	// Round-trip through JSON so YAML and JSON documents reach the validator
	// and the decoder in the same shape.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize bank: %w", err)
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var qs []Question
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return qs, nil
}

// Filter drops questions whose problem text is missing or too short to be a
// real problem. Order is preserved.
func Filter(qs []Question) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if utf8.RuneCountInString(q.ProblemText) > MinProblemLength {
			out = append(out, q)
		}
	}
	return out
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// At returns the question at index i. It panics if i is out of range.
func (b *Bank) At(i int) Question { return b.questions[i] }

// All returns a copy of the questions in order.
func (b *Bank) All() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// ByID looks up a question by its ID.
func (b *Bank) ByID(id string) (Question, int, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Question{}, -1, false
	}
	return b.questions[i], i, true
}
