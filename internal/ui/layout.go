package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the dial panel and readout horizontally, with menu bar
// on top and status bar on bottom.
func ComposeLayout(menuBar, dialPanel, readout, statusBar string, width int) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, dialPanel, readout)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
