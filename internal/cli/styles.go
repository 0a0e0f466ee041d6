package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	metricLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(20)

	metricValueStyle = lipgloss.NewStyle().
				Bold(true)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor).
				PaddingRight(2)

	tableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)
)

// renderMetric renders one "label  value" line
func renderMetric(label, value string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		metricLabelStyle.Render(label),
		metricValueStyle.Render(value),
	)
}

// renderTable lays out rows in columns sized to their widest cell
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	line := make([]string, len(headers))
	for i, h := range headers {
		line[i] = tableHeaderStyle.Width(widths[i] + 2).Render(h)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
	b.WriteString("\n")

	for _, row := range rows {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			line[i] = tableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
		b.WriteString("\n")
	}
	return b.String()
}
