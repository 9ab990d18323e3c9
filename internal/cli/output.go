package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/internal/services"
)

// Table renders data as a formatted table.
type Table struct {
	headers []string
	rows    [][]string
	writer  io.Writer
}

// NewTable creates a new table writing to w with the given headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		headers: headers,
		writer:  w,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	t.rows = append(t.rows, cols)
}

// Render writes the table.
func (t *Table) Render() {
	w := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(t.headers, "\t"))

	sep := make([]string, len(t.headers))
	for i, h := range t.headers {
		sep[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(sep, "\t"))

	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}

// printOutput prints data in a structured format. Table output is rendered
// by each command.
func printOutput(w io.Writer, format string, data interface{}) error {
	switch format {
	case "json":
		return printJSON(w, data)
	case "yaml":
		return printYAML(w, data)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(data)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// formatOutcome returns an outcome kind with visual indicator.
func formatOutcome(kind account.OutcomeKind) string {
	switch kind {
	case account.OutcomeSucceeded:
		return green("[+] " + string(kind))
	case account.OutcomeAlreadyExists:
		return yellow("[~] " + string(kind))
	default:
		return red("[-] " + string(kind))
	}
}

// formatStatus returns a run status with visual indicator.
func formatStatus(status string) string {
	switch status {
	case "ok":
		return green(status)
	case "partial":
		return yellow(status)
	default:
		return red(status)
	}
}

func renderSummaries(w io.Writer, format string, summaries []*services.Summary) error {
	if format != "table" {
		if len(summaries) == 1 {
			return printOutput(w, format, summaries[0])
		}
		return printOutput(w, format, summaries)
	}

	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderSummary(w, s)
	}
	return nil
}

// renderSummary prints per-project results followed by the run totals
func renderSummary(w io.Writer, s *services.Summary) {
	fmt.Fprintf(w, "%s run %s: %s\n\n", strings.ToUpper(string(s.Operation)), s.RunID, formatStatus(s.Status()))

	if len(s.Results) > 0 {
		t := NewTable(w, "PROJECT ID", "NAME", "REGISTRY ID", "STATUS", "REASON", "OUTCOME")
		for _, r := range s.Results {
			status := "-"
			if r.Outcome.StatusCode != 0 {
				status = strconv.Itoa(r.Outcome.StatusCode)
			}
			registryID := r.RegistryID
			if registryID == "" {
				registryID = "-"
			}
			t.AddRow(r.ProjectID, truncate(r.Name, 30), registryID, status, truncate(r.Outcome.Reason, 60), formatOutcome(r.Outcome.Kind))
		}
		t.Render()
		fmt.Fprintln(w)
	}

	verb := "onboarded"
	if s.Operation == account.OperationOffboard {
		verb = "offboarded"
	}
	fmt.Fprintf(w, "%d of %d projects %s\n", s.Succeeded, s.Candidates, verb)
	fmt.Fprintf(w, "  Already exists: %d\n", s.AlreadyExists)
	fmt.Fprintf(w, "  Rejected:       %d\n", s.Rejected)
	fmt.Fprintf(w, "  Failed:         %d\n", s.Failed)
	if s.Aborted {
		fmt.Fprintf(w, "  Skipped:        %d\n", s.Skipped)
		fmt.Fprintf(w, "  Aborted:        %s\n", s.AbortReason)
	}
}
