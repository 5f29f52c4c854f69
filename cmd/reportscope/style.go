package main

import "github.com/charmbracelet/lipgloss"

// Terminal palette for listings and the browse loop.
var (
	accent = lipgloss.Color("#7D56F4")
	muted  = lipgloss.Color("#6B7280")
	failed = lipgloss.Color("#FF3838")
	done   = lipgloss.Color("#00D26A")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(failed)
	successStyle = lipgloss.NewStyle().Foreground(done)
)
