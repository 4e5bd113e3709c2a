package feedback

import (
	"fmt"
	"strings"
)

const interviewerPersona = `You are a Quant Interviewer at a top trading firm.`

const (
	reasoningLabel = "Candidate's Reasoning: "
	solutionLabel  = "Correct Solution: "
)

const interviewerRules = `Task:
1. Evaluate whether the candidate's reasoning is sound.
2. Point out any missed edge cases, fallacies or gaps.
3. Ask one leading question that moves them closer to the answer or to a deeper understanding.
4. Do not reveal the correct solution.
5. Keep your reply under 100 words and conversational.`

// buildSystemPrompt frames the model for multi-turn chat. The problem and the
// reference solution ride along so the model can judge every turn.
func buildSystemPrompt(problem, solution string) string {
	var b strings.Builder

	b.WriteString(interviewerPersona)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Problem: %s\n", problem)
	fmt.Fprintf(&b, "%s%s\n\n", solutionLabel, solution)
	b.WriteString(interviewerRules)

	return b.String()
}

// buildSingleTurnPrompt packs everything into one user message.
func buildSingleTurnPrompt(problem, reasoning, solution string) string {
	var b strings.Builder

	b.WriteString(interviewerPersona)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Problem: %s\n", problem)
	fmt.Fprintf(&b, "%s%s\n", reasoningLabel, reasoning)
	fmt.Fprintf(&b, "%s%s\n\n", solutionLabel, solution)
	b.WriteString(interviewerRules)

	return b.String()
}

// ReasoningFromPrompt recovers the candidate's text from a single-turn
// prompt. Any other text is returned unchanged.
func ReasoningFromPrompt(prompt string) string {
	_, rest, ok := strings.Cut(prompt, reasoningLabel)
	if !ok {
		return prompt
	}
	reasoning, _, ok := strings.Cut(rest, "\n"+solutionLabel)
	if !ok {
		return prompt
	}
	return reasoning
}
