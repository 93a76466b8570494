package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// Flags for "tq browse".
var (
	browseTasksFlag     string
	browseReferenceFlag string
)

var browseCmd = &cobra.Command{
	Use:   "browse <query-text>",
	Short: "Browse query results interactively",
	Long: `Run a query and browse its results in an interactive terminal UI.

The left panel lists matching tasks; the right panel shows the selected
task's details and its match explanation. Press r to re-run the query
against the current task file, q to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reference, err := parseReference(browseReferenceFlag)
		if err != nil {
			return err
		}

		m := newBrowseModel(args[0], resolveTasksFile(browseTasksFlag), reference)
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running browse UI: %w", err)
		}
		return nil
	},
}

// Browse panel indices.
const (
	panelResults = iota
	panelDetail
	browsePanelCount
)

type browseModel struct {
	queryText string
	tasksFile string
	reference time.Time

	activePanel int
	width       int
	height      int

	// Data.
	tasks        []models.Task
	explanations map[string]string
	total        int
	selected     int

	// State.
	loading bool
	err     error
}

// browseLoadedMsg carries query results back to the model.
type browseLoadedMsg struct {
	tasks        []models.Task
	explanations map[string]string
	total        int
	err          error
}

var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	browsePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(1, 2)

	browseActivePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	browseHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62")).
				MarginBottom(1)

	browseSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230"))

	browseHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newBrowseModel(queryText, tasksFile string, reference time.Time) browseModel {
	return browseModel{
		queryText: queryText,
		tasksFile: tasksFile,
		reference: reference,
		loading:   true,
	}
}

// loadResults runs the query off the UI goroutine.
func (m browseModel) loadResults() tea.Msg {
	result, _, err := runQuery(m.queryText, m.tasksFile, true, m.reference)
	if err != nil {
		return browseLoadedMsg{err: err}
	}
	return browseLoadedMsg{
		tasks:        result.Tasks,
		explanations: result.Explanations,
		total:        result.Total,
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.loadResults
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % browsePanelCount
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.tasks)-1 {
				m.selected++
			}
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadResults
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case browseLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.tasks = msg.tasks
		m.explanations = msg.explanations
		m.total = msg.total
		if m.selected >= len(m.tasks) {
			m.selected = 0
		}
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m browseModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := browseTitleStyle.Render(" taskquery browse ")
	help := browseHelpStyle.Render("up/down: select | tab: switch panel | r: re-run | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Running query...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	results := m.renderResultsPanel()
	detail := m.renderDetailPanel()

	availableWidth := m.width - 2

	var body string
	if availableWidth > 100 {
		colWidth := availableWidth / 2
		results = m.applyPanelStyle(panelResults, results, colWidth-4)
		detail = m.applyPanelStyle(panelDetail, detail, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, results, detail)
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		results = m.applyPanelStyle(panelResults, results, panelWidth)
		detail = m.applyPanelStyle(panelDetail, detail, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, results, detail)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m browseModel) applyPanelStyle(panel int, content string, width int) string {
	style := browsePanelStyle
	if m.activePanel == panel {
		style = browseActivePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m browseModel) renderResultsPanel() string {
	var b strings.Builder
	b.WriteString(browseHeaderStyle.Render(fmt.Sprintf("Results (%d)", m.total)))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString("  No tasks matched.")
		return b.String()
	}

	for i, t := range m.tasks {
		line := fmt.Sprintf("[%s] %-12s %s", t.Status.Symbol, t.ID, t.Name)
		if i == m.selected {
			b.WriteString(browseSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(styleForStatus(t.Status).Render("  " + line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m browseModel) renderDetailPanel() string {
	var b strings.Builder
	b.WriteString(browseHeaderStyle.Render("Detail"))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString("  Nothing selected.")
		return b.String()
	}

	t := m.tasks[m.selected]
	b.WriteString(fmt.Sprintf("  %s\n", t.Name))
	b.WriteString(fmt.Sprintf("  id:       %s\n", t.ID))
	b.WriteString(fmt.Sprintf("  status:   %s\n", t.Status.Name))
	b.WriteString(fmt.Sprintf("  priority: %s\n", t.Priority))
	if t.DueAt != nil {
		b.WriteString(fmt.Sprintf("  due:      %s\n", t.DueAt.Format("2006-01-02")))
	}
	if t.Path != "" {
		b.WriteString(fmt.Sprintf("  path:     %s\n", t.Path))
	}
	if len(t.Tags) > 0 {
		b.WriteString(fmt.Sprintf("  tags:     %s\n", strings.Join(t.Tags, ", ")))
	}
	if expl, ok := m.explanations[t.ID]; ok {
		b.WriteString("\n")
		b.WriteString(explainStyle.Render("  " + expl))
		b.WriteString("\n")
	}

	return b.String()
}

func init() {
	browseCmd.Flags().StringVarP(&browseTasksFlag, "file", "f", "", "Task collection file (default from config)")
	browseCmd.Flags().StringVar(&browseReferenceFlag, "reference", "", "Reference date for relative clauses (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(browseCmd)
}
