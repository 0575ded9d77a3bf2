package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/llm"
	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/ui/components"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM calls (question generation, weights, study plans)",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		if err := checkPurpose(purpose); err != nil {
			return err
		}

		s, err := openLogStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println(theme.Dim.Render("No LLM calls logged yet."))
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			status := theme.Strong.Render("ok")
			if !e.Success {
				status = theme.Weak.Render("failed")
			}
			rows = append(rows, []string{
				strconv.FormatInt(e.ID, 10),
				e.Timestamp.Local().Format(timeLayout),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				status,
			})
		}
		fmt.Println(components.Table{
			Headers: []string{"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "Status"},
			Rows:    rows,
			Numeric: []int{0, 4, 5, 6},
		}.View())
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openLogStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		status := theme.Strong.Render("ok")
		if !e.Success {
			status = theme.Weak.Render("failed: " + e.ErrorMessage)
		}
		fields := [][2]string{
			{"Time", e.Timestamp.Local().Format(timeLayout)},
			{"Purpose", e.Purpose},
			{"Provider", e.Provider},
			{"Model", e.Model},
			{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
			{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
			{"Status", status},
		}
		fmt.Println(theme.Title.Render(fmt.Sprintf("LLM call %d", e.ID)))
		for _, f := range fields {
			fmt.Printf("%s %s\n", theme.Dim.Render(fmt.Sprintf("%-9s", f[0]+":")), f[1])
		}
		printBody("Request", e.RequestBody)
		printBody("Response", e.ResponseBody)
		return nil
	},
}

// printBody prints a logged body, indenting it when it is JSON.
func printBody(title, body string) {
	fmt.Println(theme.Heading.Render(title))
	if body == "" {
		fmt.Println(theme.Dim.Render("(not captured)"))
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err == nil {
		body = buf.String()
	}
	fmt.Println(theme.Card.Render(body))
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openLogStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println(theme.Dim.Render("No LLM usage recorded yet."))
			return nil
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		fmt.Println(theme.Title.Render("Usage by purpose"))
		fmt.Println(purposeUsageTable(byPurpose).View())
		fmt.Println()
		fmt.Println(theme.Title.Render("Estimated cost (USD)"))
		tbl, unpriced := modelCostTable(byModel)
		fmt.Println(tbl.View())
		if len(unpriced) > 0 {
			fmt.Println(theme.Dim.Render("No pricing for: " + strings.Join(unpriced, ", ")))
		}
		return nil
	},
}

func purposeUsageTable(usage []store.LLMUsage) components.Table {
	t := components.Table{
		Headers: []string{"Purpose", "Calls", "Input", "Output", "Total", "Avg ms"},
		Numeric: []int{1, 2, 3, 4, 5},
	}
	var calls, in, out int
	for _, u := range usage {
		t.Rows = append(t.Rows, []string{
			u.Purpose,
			strconv.Itoa(u.Calls),
			strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens),
			strconv.Itoa(u.InputTokens + u.OutputTokens),
			strconv.FormatInt(u.AvgLatencyMs, 10),
		})
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	t.Footer = []string{"total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in + out), ""}
	return t
}

// modelCostTable prices each model's usage. Models without a known price
// are listed with "?" and returned so the caller can flag the total as
// partial.
func modelCostTable(usage []store.LLMUsage) (components.Table, []string) {
	t := components.Table{
		Headers: []string{"Model", "Calls", "Input", "Output", "Cost"},
		Numeric: []int{1, 2, 3, 4},
	}
	var total float64
	var unpriced []string
	for _, u := range usage {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		t.Rows = append(t.Rows, []string{
			truncate(u.Model, 32),
			strconv.Itoa(u.Calls),
			strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens),
			cost,
		})
	}
	label := "total"
	if len(unpriced) > 0 {
		label = "total (partial)"
	}
	t.Footer = []string{label, "", "", "", formatCost(total)}
	return t, unpriced
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// openLogStore opens the database for the read-only inspection commands.
func openLogStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func purposeNames() []string {
	var names []string
	for _, p := range llm.Purposes() {
		names = append(names, string(p))
	}
	return names
}

func checkPurpose(purpose string) error {
	if purpose == "" {
		return nil
	}
	for _, p := range llm.Purposes() {
		if string(p) == purpose {
			return nil
		}
	}
	return fmt.Errorf("unknown purpose %q (want one of %s)", purpose, strings.Join(purposeNames(), ", "))
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls made for this purpose ("+strings.Join(purposeNames(), ", ")+")")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
