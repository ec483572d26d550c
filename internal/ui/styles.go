package ui

import "github.com/charmbracelet/lipgloss"

// Matrix color palette
var (
	ColorMatrixGreen = lipgloss.Color("#00FF41")
	ColorGreen       = lipgloss.Color("#00CC33")
	ColorMidGreen    = lipgloss.Color("#008F11")
	ColorDimGreen    = lipgloss.Color("#004A0A")
	ColorNeedle      = lipgloss.Color("#00FFAA")
	ColorCardinal    = lipgloss.Color("#33FF66")
	ColorBorderNorm  = lipgloss.Color("#00AA22")
	ColorError       = lipgloss.Color("#FF3300")
	ColorWarning     = lipgloss.Color("#FFAA00")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStatusSensing = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true)

	StyleStatusPaused = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleHeadingBig = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleTrend = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleRule = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleDialRing = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleDialAxis = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#003300"))

	StyleDialMark = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleNeedle = lipgloss.NewStyle().
			Foreground(ColorNeedle).
			Bold(true)

	StyleNeedleTail = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleCardinal = lipgloss.NewStyle().
			Foreground(ColorCardinal).
			Bold(true)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)
)
