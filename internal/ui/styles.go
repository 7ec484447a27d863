package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// This file centralizes the lipgloss styles used for table output.

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light Gray

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dim Gray

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	regressionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // Red
	improvementStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("46")) // Green
)

// colorEnabled gates the regression/improvement coloring so dumb
// terminals and redirected output get plain cells.
var colorEnabled = termenv.EnvColorProfile() != termenv.Ascii
