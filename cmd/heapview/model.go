/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"classvm/heapdump"
)

// blockItem is one dumped heap block, listed by its original base address
// and the number of objects walkBlock found in it.
type blockItem struct {
	index   int
	block   heapdump.Block
	objects []objectEntry
}

func (i blockItem) Title() string {
	return fmt.Sprintf("block %d @ 0x%x", i.index, uint64(i.block.Start))
}
func (i blockItem) Description() string {
	return fmt.Sprintf("%d objects, %d bytes", len(i.objects), len(i.block.Bytes))
}
func (i blockItem) FilterValue() string { return i.Title() }

// objectItem is one object found by walkBlock, rendered as a list.Item.
type objectItem struct{ entry objectEntry }

func (i objectItem) Title() string {
	return fmt.Sprintf("0x%x  %s", uint64(i.entry.Addr), i.entry.ClassName)
}
func (i objectItem) Description() string {
	if i.entry.IsArray {
		return fmt.Sprintf("array, length %d, %d bytes", i.entry.Length, i.entry.Size)
	}
	return fmt.Sprintf("%d bytes", i.entry.Size)
}
func (i objectItem) FilterValue() string { return i.Title() }

// Model is cmd/heapview's single bubbletea model: a block list, and, once a
// block is opened, an object list walked from it (spec.md §4.7: "heap walks
// are possible one block at a time using header sizes and class metadata").
// Grounded on mabhi256-jdiag's internal/monitor.Model process-selector/
// monitor-view toggle shape.
type Model struct {
	dump *heapdump.Dump
	path string

	width  int
	height int

	blockList  list.Model
	objectList list.Model
	inBlock    bool
	openBlock  blockItem
}

func newModel(path string, dump *heapdump.Dump) *Model {
	items := make([]list.Item, 0, len(dump.Blocks))
	for i, b := range dump.Blocks {
		items = append(items, blockItem{index: i, block: b, objects: walkBlock(dump, b)})
	}

	blockList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	blockList.Title = "Heap blocks"
	blockList.SetShowStatusBar(false)
	blockList.SetFilteringEnabled(true)

	objectList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	objectList.SetShowStatusBar(false)
	objectList.SetFilteringEnabled(true)

	return &Model{dump: dump, path: path, blockList: blockList, objectList: objectList}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listHeight := msg.Height - 4
		m.blockList.SetSize(msg.Width, listHeight)
		m.objectList.SetSize(msg.Width, listHeight)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.inBlock {
			return m.updateObjectView(msg)
		}
		return m.updateBlockView(msg)
	}
	return m, nil
}

func (m *Model) updateBlockView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		if item, ok := m.blockList.SelectedItem().(blockItem); ok {
			m.openBlock = item
			items := make([]list.Item, 0, len(item.objects))
			for _, e := range item.objects {
				items = append(items, objectItem{entry: e})
			}
			m.objectList.SetItems(items)
			m.objectList.Title = fmt.Sprintf("Objects in block %d", item.index)
			m.inBlock = true
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.blockList, cmd = m.blockList.Update(msg)
	return m, cmd
}

func (m *Model) updateObjectView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Escape) {
		m.inBlock = false
		return m, nil
	}
	var cmd tea.Cmd
	m.objectList, cmd = m.objectList.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	header := headerStyle.Width(m.width).Render(fmt.Sprintf("heapview — %s", m.path))
	separator := mutedStyle.Render(strings.Repeat("─", m.width))

	var body string
	if m.inBlock {
		body = m.objectList.View()
	} else {
		body = m.blockList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, separator, body)
}
