/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Command heapview is the diagnostic companion to cmd/classvm's
// --dump-heap-on-exit flag (spec.md §4.7 "debug dump utility"): it attaches
// to one heap dump file and walks it block by block, rendering a
// bubbletea/bubbles/lipgloss TUI grounded on mabhi256-jdiag's
// process-selector/monitor-view model.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"classvm/heapdump"
)

var rootCmd = &cobra.Command{
	Use:   "heapview <dump-file>",
	Short: "Inspect a classvm heap dump produced by `classvm run --dump-heap-on-exit`",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(args[0])
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runView(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening heap dump: %w", err)
	}
	defer f.Close()

	dump, err := heapdump.Read(f)
	if err != nil {
		return fmt.Errorf("reading heap dump: %w", err)
	}

	model := newModel(path, dump)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
