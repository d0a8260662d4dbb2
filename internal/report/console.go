package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	modelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A78BFA")).
			Bold(true)

	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E2E8F0"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type ConsoleGenerator struct {
	summary *Summary
}

func NewConsoleGenerator(summary *Summary) *ConsoleGenerator {
	return &ConsoleGenerator{summary: summary}
}

func (c *ConsoleGenerator) Generate() (string, error) {
	s := c.summary
	var buf strings.Builder

	buf.WriteString(titleStyle.Render("Model Analysis"))
	buf.WriteString("\n")
	buf.WriteString(statusStyle.Render(fmt.Sprintf(
		"project=%s files=%d models=%d passes=%d", s.ProjectKey, s.FileCount, s.ModelCount, s.Passes)))
	buf.WriteString("\n\n")

	for _, m := range s.Models {
		buf.WriteString(modelStyle.Render(m.Fullname))
		buf.WriteString("\n")
		for _, sym := range m.Symbols {
			buf.WriteString("  ")
			buf.WriteString(symbolStyle.Render(sym.Name))
			buf.WriteString(": ")
			buf.WriteString(typeStyle.Render(sym.Type))
			buf.WriteString("\n")
		}
		if len(m.Symbols) == 0 {
			buf.WriteString(statusStyle.Render("  (no injected members)"))
			buf.WriteString("\n")
		}
	}
	if len(s.Models) > 0 {
		buf.WriteString("\n")
	}

	switch {
	case s.Errors > 0:
		buf.WriteString(errorStyle.Render(fmt.Sprintf("✗ %d class(es) failed", s.Errors)))
	case s.Incomplete > 0:
		buf.WriteString(warnStyle.Render(fmt.Sprintf(
			"! %d lookup(s) still unresolved after %d passes", s.Incomplete, s.Passes)))
	default:
		buf.WriteString(successStyle.Render(fmt.Sprintf(
			"✓ %d symbol(s) injected into %d model(s)", s.InjectedCount(), s.ModelCount)))
	}
	buf.WriteString("\n")
	if s.Deferrals > 0 {
		buf.WriteString(statusStyle.Render(fmt.Sprintf("%d deferral(s) resolved across passes", s.Deferrals)))
		buf.WriteString("\n")
	}

	return buf.String(), nil
}
