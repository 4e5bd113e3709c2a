package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
	"github.com/abhisek/quantsim/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the judge's audit log",
	Long: "Read the LLM audit log written by `serve` or `play` when --db or " +
		"QUANTSIM_AUDIT_DB is set. Browsing sessions can be listed and replayed.",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent judge calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		session, _ := cmd.Flags().GetString("session")

		return withAuditRepo(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), store.QueryOpts{
				Limit:     limit,
				Purpose:   purpose,
				SessionID: session,
			})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			writeEventList(cmd.OutOrStdout(), events)
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one judge call with its full request and response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		return withAuditRepo(cmd, func(repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			writeEvent(cmd.OutOrStdout(), *e)
			return nil
		})
	},
}

var llmSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List browsing sessions seen by the judge",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return withAuditRepo(cmd, func(repo store.EventRepo) error {
			sessions, err := repo.LLMSessions(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("query sessions: %w", err)
			}
			writeSessionList(cmd.OutOrStdout(), sessions)
			return nil
		})
	},
}

var llmReplayCmd = &cobra.Command{
	Use:   "replay <session-id>",
	Short: "Replay the reasoning and feedback of one browsing session",
	Long:  "Replay a session in the order it happened. A unique prefix of the session ID is enough.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAuditRepo(cmd, func(repo store.EventRepo) error {
			ctx := cmd.Context()
			sessions, err := repo.LLMSessions(ctx, 0)
			if err != nil {
				return fmt.Errorf("query sessions: %w", err)
			}
			id, err := resolveSession(sessions, args[0])
			if err != nil {
				return err
			}

			events, err := repo.QueryLLMEvents(ctx, store.QueryOpts{SessionID: id})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			writeReplay(cmd.OutOrStdout(), id, events)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAuditRepo(cmd, func(repo store.EventRepo) error {
			ctx := cmd.Context()
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			sessions, err := repo.LLMSessions(ctx, 0)
			if err != nil {
				return fmt.Errorf("query sessions: %w", err)
			}
			writeStats(cmd.OutOrStdout(), byPurpose, byModel, len(sessions))
			return nil
		})
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (feedback or chat)")
	llmListCmd.Flags().StringP("session", "s", "", "Filter by browsing session ID")
	llmSessionsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmSessionsCmd)
	llmCmd.AddCommand(llmReplayCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

func withAuditRepo(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	dbPath, err := inspectDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(s.EventRepo())
}

// judgeTurn recovers what the learner sent and what they were shown for one
// recorded call.
func judgeTurn(e store.LLMRequestEventRecord) (reasoning, reply string) {
	reasoning = feedback.ReasoningFromPrompt(llm.LastUserTurn(e.RequestBody))
	if e.Success {
		return reasoning, e.ResponseBody
	}
	genErr := &feedback.GenerationError{Err: errors.New(e.ErrorMessage)}
	return reasoning, feedback.Failure{Kind: feedback.FailureRemote, Message: genErr.Error()}.Text()
}

// resolveSession matches arg against known session IDs, exactly or as a
// unique prefix.
func resolveSession(sessions []store.LLMSessionSummary, arg string) (string, error) {
	var matches []string
	for _, s := range sessions {
		if s.SessionID == arg {
			return arg, nil
		}
		if strings.HasPrefix(s.SessionID, arg) {
			matches = append(matches, s.SessionID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("session %q not found", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("session prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

func writeEventList(w io.Writer, events []store.LLMRequestEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-8s  %-8s  %-24s  %-6s  %-6s  %-2s  %s\n",
		"ID", "Timestamp", "Purpose", "Session", "Model", "In", "Out", "OK", "Reasoning")
	fmt.Fprintln(w, strings.Repeat("─", 110))

	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		reasoning, _ := judgeTurn(e)
		fmt.Fprintf(w, "%-5d  %-19s  %-8s  %-8s  %-24s  %-6d  %-6d  %-2s  %s\n",
			e.ID,
			e.Timestamp.Local().Format(timeLayout),
			e.Purpose,
			truncate(e.SessionID, 8),
			truncate(e.Model, 24),
			e.InputTokens,
			e.OutputTokens,
			ok,
			oneLine(reasoning, 30),
		)
	}
}

func writeEvent(w io.Writer, e store.LLMRequestEventRecord) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %d\n", e.ID)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "Session:   %s\n", orDash(e.SessionID))
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(w, "Model:     %s (%s)\n", e.Model, e.Provider)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}

	reasoning, reply := judgeTurn(e)
	section := func(title, body string) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, sep)
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintln(w, body)
	}
	section("REASONING", reasoning)
	section("SHOWN TO LEARNER", reply)
	section("FULL REQUEST", e.RequestBody)
}

func writeSessionList(w io.Writer, sessions []store.LLMSessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No browsing sessions recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-19s  %-19s  %5s  %6s  %8s\n",
		"Session", "First", "Last", "Calls", "Failed", "Tokens")
	fmt.Fprintln(w, strings.Repeat("─", 102))
	for _, s := range sessions {
		fmt.Fprintf(w, "%-36s  %-19s  %-19s  %5d  %6d  %8d\n",
			s.SessionID,
			s.FirstAt.Local().Format(timeLayout),
			s.LastAt.Local().Format(timeLayout),
			s.Calls,
			s.Failures,
			s.InputTokens+s.OutputTokens,
		)
	}
}

// writeReplay prints events oldest first. QueryLLMEvents returns them newest
// first.
func writeReplay(w io.Writer, sessionID string, events []store.LLMRequestEventRecord) {
	fmt.Fprintf(w, "Session %s, %d judge calls\n", sessionID, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		reasoning, reply := judgeTurn(e)
		fmt.Fprintf(w, "\n[%s] #%d %s\n", e.Timestamp.Local().Format(timeLayout), e.ID, e.Purpose)
		fmt.Fprintf(w, "You: %s\n", reasoning)
		fmt.Fprintf(w, "Judge: %s\n", reply)
	}
}

func writeStats(w io.Writer, byPurpose []store.LLMUsageStats, byModel []store.LLMModelUsage, sessions int) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	rule := strings.Repeat("─", 72)

	fmt.Fprintln(w, "Usage by Purpose")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(w, rule)

	var totalCalls, totalIn, totalOut int
	for _, st := range byPurpose {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			orDash(st.Purpose), st.Calls, st.InputTokens, st.OutputTokens, st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
		totalCalls += st.Calls
		totalIn += st.InputTokens
		totalOut += st.OutputTokens
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n",
		"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)
	fmt.Fprintf(w, "\nBrowsing sessions: %d\n", sessions)

	if len(byModel) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-32s  %6s  %10s\n", "Model", "Calls", "Cost")
	fmt.Fprintln(w, rule)

	var (
		totalCost float64
		unknown   []string
	)
	for _, mu := range byModel {
		cost := llm.LookupCost(mu.Model)
		if cost == nil {
			unknown = append(unknown, mu.Model)
			fmt.Fprintf(w, "%-32s  %6d  %10s\n", truncate(mu.Model, 32), mu.Calls, "?")
			continue
		}
		c := cost.Cost(mu.InputTokens, mu.OutputTokens)
		totalCost += c
		fmt.Fprintf(w, "%-32s  %6d  %10s\n", truncate(mu.Model, 32), mu.Calls, formatCost(c))
	}

	fmt.Fprintln(w, rule)
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s\n", label, "", formatCost(totalCost))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// oneLine flattens s for table cells.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
