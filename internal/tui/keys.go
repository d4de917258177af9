package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xenking/catalog-viewer/internal/domain/product"
)

// KeyMap defines the bindings shared by every view.
type KeyMap struct {
	Quit   key.Binding
	Logout key.Binding
	Toggle key.Binding
	Back   key.Binding
	Search key.Binding
	Filter key.Binding
	Select key.Binding
	Retry  key.Binding
	Up     key.Binding
	Down   key.Binding

	// Modes picks a filter mode in the filter menu, in product.Modes order.
	Modes []key.Binding
}

// DefaultKeyMap returns the canonical bindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log out"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "products/summary"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "down"),
		),
	}
	for i, mode := range product.Modes() {
		k := string(rune('1' + i))
		km.Modes = append(km.Modes, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, mode.Label()),
		))
	}
	return km
}

// modeFor returns the filter mode bound to msg, if any.
func (km KeyMap) modeFor(msg tea.KeyMsg) (product.FilterMode, bool) {
	modes := product.Modes()
	for i, b := range km.Modes {
		if key.Matches(msg, b) && i < len(modes) {
			return modes[i], true
		}
	}
	return "", false
}

// helpLine renders short help for the given bindings.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return HelpStyle.Render(strings.Join(parts, "  "))
}
