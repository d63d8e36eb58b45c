/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import "github.com/charmbracelet/bubbles/key"

// keyMap is the TUI's key bindings, grounded on mabhi256-jdiag's
// internal/monitor KeyMap shape.
type keyMap struct {
	Enter  key.Binding
	Escape key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Escape, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Enter, k.Escape, k.Quit}}
}

var keys = keyMap{
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open block")),
	Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
