package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/valter-silva-au/taskquery/internal/query"
	"github.com/valter-silva-au/taskquery/pkg/models"
)

// Style definitions, shared by the query renderer and the browse TUI.
var (
	groupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	statusTodoStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusInProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDoneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusCancelledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	explainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func styleForStatus(s models.Status) lipgloss.Style {
	switch s.Type {
	case models.StatusTypeInProgress:
		return statusInProgressStyle
	case models.StatusTypeDone:
		return statusDoneStyle
	case models.StatusTypeCancelled:
		return statusCancelledStyle
	default:
		return statusTodoStyle
	}
}

// formatTaskLine renders one task as a single result line.
func formatTaskLine(t models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-12s %s", t.Status.Symbol, t.ID, t.Name)
	var extras []string
	if t.Priority != models.PriorityNone {
		extras = append(extras, "priority "+t.Priority.String())
	}
	if t.DueAt != nil {
		extras = append(extras, "due "+t.DueAt.Format("2006-01-02"))
	}
	for _, tag := range t.Tags {
		extras = append(extras, "#"+tag)
	}
	if len(extras) > 0 {
		b.WriteString(dimStyle.Render("  (" + strings.Join(extras, ", ") + ")"))
	}
	return styleForStatus(t.Status).Render(b.String())
}

// printResult writes the human-readable result: grouped when the query
// grouped, flat otherwise, with explanations appended when requested.
func printResult(out io.Writer, result *query.Result, withExplanations bool) {
	if result.Total == 0 {
		fmt.Fprintln(out, "No tasks matched.")
	}

	if len(result.Groups) > 0 {
		for i, g := range result.Groups {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s\n", groupHeaderStyle.Render(fmt.Sprintf(" %s (%d) ", g.Key, len(g.Tasks))))
			for _, t := range g.Tasks {
				fmt.Fprintf(out, "  %s\n", formatTaskLine(t))
			}
		}
	} else {
		for _, t := range result.Tasks {
			fmt.Fprintf(out, "%s\n", formatTaskLine(t))
		}
	}

	if result.Total > 0 {
		fmt.Fprintf(out, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d task(s) matched", result.Total)))
	}

	if withExplanations && len(result.Explanations) > 0 {
		fmt.Fprintf(out, "\n%s\n", groupHeaderStyle.Render(" Explanations "))
		for _, t := range result.Tasks {
			fmt.Fprintf(out, "  %-12s %s\n", t.ID, explainStyle.Render(result.Explanations[t.ID]))
		}
	}
}
