package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle marks section headers in help output and the wizard.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is dimmed so descriptions sit behind command names.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// PromptStyle colors the console prompt.
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)

	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
