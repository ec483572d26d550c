package ui

// RenderDialPanel wraps dial content with a styled border. The dial grid is
// rendered externally to keep sizing in one place.
func RenderDialPanel(width, height int, dialContent string) string {
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(dialContent)
}
