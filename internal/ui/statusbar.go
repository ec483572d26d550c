package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, sensing bool, variant string, samples, emits int, headingDeg float64, seeded bool) string {
	status := ""
	if sensing {
		status = StyleStatusSensing.Render("[SENSING]")
	} else {
		status = StyleStatusPaused.Render("[PAUSED]")
	}

	hdg := "---"
	if seeded {
		hdg = fmt.Sprintf("%03d", int(headingDeg+0.5)%360)
	}
	info := fmt.Sprintf(" Variant: %s  Samples: %d  Shown: %d  Hdg: %sdeg",
		variant, samples, emits, hdg)

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	padding := ""
	for i := 0; i < gap; i++ {
		padding += " "
	}

	return StyleStatusBar.Width(width).Render(content + padding)
}
