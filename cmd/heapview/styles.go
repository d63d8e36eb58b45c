/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import "github.com/charmbracelet/lipgloss"

var (
	headerColor = lipgloss.Color("#4682B4")
	mutedColor  = lipgloss.Color("#888888")

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(headerColor).Bold(true).Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC3333")).Bold(true)
)
