package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	sort   key.Binding
	filter key.Binding
	rateUp key.Binding
	rateDn key.Binding
	remove key.Binding
	open   key.Binding
	create key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		rateUp: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "rate up")),
		rateDn: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "rate down")),
		remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		create: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.sort, k.filter, k.rateUp, k.rateDn},
		{k.remove, k.open, k.create, k.quit},
	}
}
