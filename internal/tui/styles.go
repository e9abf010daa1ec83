package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/codalotl/blobdiff/internal/presentation"
)

type styles struct {
	title     lipgloss.Style
	gutter    lipgloss.Style
	added     lipgloss.Style
	deleted   lipgloss.Style
	caret     lipgloss.Style
	separator lipgloss.Style
	status    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		gutter:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		added:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Background(lipgloss.Color("22")),
		deleted:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Background(lipgloss.Color("52")),
		caret:     lipgloss.NewStyle().Reverse(true),
		separator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}
}

// marker returns the style for a marker style tag.
func (s styles) marker(tag string) lipgloss.Style {
	if tag == presentation.StyleDeleted {
		return s.deleted
	}
	return s.added
}
