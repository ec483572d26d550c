package ui

import (
	"fmt"
	"strings"

	"compass.klederson.com/internal/heading"
	"github.com/charmbracelet/lipgloss"
)

// ReadoutState carries everything the readout panel shows.
type ReadoutState struct {
	Seeded   bool    // at least one emission this session
	Heading  float64 // smoothed display heading
	Raw      float64 // latest raw heading
	HaveRaw  bool
	Rotation float64 // continuous rotation target
	Samples  int
	Emits    int
	Rejected int
	History  []float64 // emitted headings, oldest first
	Err      error
}

// Trend strip levels, low heading to high.
const trendLevels = " .:-=+*#%"

// RenderReadout renders the right-hand panel: the numeric heading, filter
// details, and the heading trend strip.
func RenderReadout(width, height int, st ReadoutState) string {
	innerW := width - 4
	if innerW < 18 {
		innerW = 18
	}

	title := StylePanelTitle.Render("HEADING")
	sep := StyleRule.Render(strings.Repeat("-", innerW))

	lines := []string{title, sep, ""}

	if st.Seeded {
		big := fmt.Sprintf("  %3d° %-3s", int(st.Heading+0.5)%360, heading.CompassPoint(st.Heading))
		lines = append(lines, StyleHeadingBig.Render(big))
	} else {
		lines = append(lines, StyleHelp.Render("  awaiting samples..."))
	}
	lines = append(lines, "")

	fields := []struct {
		label, value string
	}{
		{"Smoothed", headingField(st.Heading, st.Seeded)},
		{"Raw", headingField(st.Raw, st.HaveRaw)},
		{"Needle", rotationField(st.Rotation, st.Seeded)},
		{"Samples", fmt.Sprintf("%d", st.Samples)},
		{"Shown", fmt.Sprintf("%d", st.Emits)},
		{"Rejected", fmt.Sprintf("%d", st.Rejected)},
	}
	for _, f := range fields {
		label := StyleLabel.Render(fmt.Sprintf("  %-9s", f.label))
		lines = append(lines, label+StyleValue.Render(f.value))
	}

	lines = append(lines, "", StyleLabel.Render("  Trend"))
	lines = append(lines, "  "+renderTrend(st.History, innerW-4))

	if st.Err != nil {
		lines = append(lines, "", StyleError.Render(truncate("  ! "+st.Err.Error(), innerW)))
	}

	lines = append(lines, "", StyleHelp.Render("  [P]ause [S]tart [R]ecal"))

	content := strings.Join(lines, "\n")
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(content)
}

func headingField(deg float64, ok bool) string {
	if !ok {
		return "--"
	}
	return fmt.Sprintf("%6.1f°", deg)
}

func rotationField(rot float64, ok bool) string {
	if !ok {
		return "--"
	}
	return fmt.Sprintf("%+7.1f°", rot)
}

// renderTrend draws recent emitted headings as a strip of level characters,
// heading 0 at the bottom level and 360 at the top.
func renderTrend(history []float64, width int) string {
	if len(history) == 0 || width < 1 {
		return StyleHelp.Render("(no emissions)")
	}
	if len(history) > width {
		history = history[len(history)-width:]
	}
	var sb strings.Builder
	for _, h := range history {
		idx := int(heading.Normalize(h) / 360 * float64(len(trendLevels)))
		if idx >= len(trendLevels) {
			idx = len(trendLevels) - 1
		}
		sb.WriteByte(trendLevels[idx])
	}
	return StyleTrend.Render(sb.String())
}

func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	if w < 3 {
		return s[:w]
	}
	return s[:w-3] + "..."
}
