package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/catalog-viewer/internal/debounce"
	"github.com/xenking/catalog-viewer/internal/domain/product"
	"github.com/xenking/catalog-viewer/internal/listing"
)

// settledMsg carries a search term delivered by the debouncer. ok is false
// once the debouncer has been stopped.
type settledMsg struct {
	gen  int
	term string
	ok   bool
}

func (m settledMsg) generation() int { return m.gen }

type listView struct {
	mount
	keys KeyMap
	repo product.Repository
	ctrl *listing.Controller

	search    textinput.Model
	searching bool
	menuOpen  bool
	menuIndex int
	cursor    int

	width, height int
}

func newListView(mt mount, keys KeyMap, opts Options) *listView {
	search := textinput.New()
	search.Placeholder = "search by title"
	search.Prompt = "/ "
	search.CharLimit = 100

	return &listView{
		mount:  mt,
		keys:   keys,
		repo:   opts.Repo,
		ctrl:   listing.New(debounce.New[string](opts.Debounce, debounce.WithClock(opts.Clock))),
		search: search,
	}
}

// Init issues the single fetch for this mount and starts listening for
// settled search terms.
func (v *listView) Init() tea.Cmd {
	v.ctrl.Mount()
	return tea.Batch(fetchProducts(v.mount, v.repo), v.waitSettled())
}

func (v *listView) waitSettled() tea.Cmd {
	ch, gen := v.ctrl.Settled(), v.gen
	return func() tea.Msg {
		term, ok := <-ch
		return settledMsg{gen: gen, term: term, ok: ok}
	}
}

func (v *listView) Capturing() bool { return v.searching || v.menuOpen }

func (v *listView) SetSize(width, height int) { v.width, v.height = width, height }

func (v *listView) Close() {
	v.cancel()
	v.ctrl.Close()
}

func (v *listView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case productsMsg:
		lg := zctx.From(v.ctx)
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				return nil
			}
			lg.Warn("Load products", zap.Error(msg.err))
			v.ctrl.Failed(msg.err)
		} else {
			lg.Debug("Products loaded", zap.Int("count", len(msg.products)))
			v.ctrl.Loaded(msg.products)
		}
		v.cursor = clamp(v.cursor, len(v.ctrl.Display()))
		return nil

	case settledMsg:
		if !msg.ok {
			return nil
		}
		v.ctrl.Settle(msg.term)
		v.cursor = clamp(v.cursor, len(v.ctrl.Display()))
		return v.waitSettled()

	case tea.KeyMsg:
		switch {
		case v.menuOpen:
			return v.updateMenu(msg)
		case v.searching:
			return v.updateSearch(msg)
		default:
			return v.updateTable(msg)
		}
	}

	if v.searching {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return cmd
	}
	return nil
}

func (v *listView) updateSearch(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
		v.searching = false
		v.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.ctrl.SetSearch(v.search.Value())
	return cmd
}

func (v *listView) updateMenu(msg tea.KeyMsg) tea.Cmd {
	modes := product.Modes()
	if mode, ok := v.keys.modeFor(msg); ok {
		v.selectMode(mode)
		return nil
	}
	switch {
	case key.Matches(msg, v.keys.Back):
		v.menuOpen = false
	case key.Matches(msg, v.keys.Up):
		v.menuIndex = max(v.menuIndex-1, 0)
	case key.Matches(msg, v.keys.Down):
		v.menuIndex = min(v.menuIndex+1, len(modes)-1)
	case key.Matches(msg, v.keys.Select):
		v.selectMode(modes[v.menuIndex])
	}
	return nil
}

func (v *listView) selectMode(mode product.FilterMode) {
	v.menuOpen = false
	v.ctrl.SelectMode(mode)
	v.cursor = 0
	zctx.From(v.ctx).Debug("Filter mode selected", zap.Stringer("mode", mode))
}

func (v *listView) updateTable(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Search):
		v.searching = true
		return v.search.Focus()
	case key.Matches(msg, v.keys.Filter):
		v.menuOpen = true
		v.menuIndex = max(slices.Index(product.Modes(), v.ctrl.Mode()), 0)
	case key.Matches(msg, v.keys.Up):
		v.cursor = clamp(v.cursor-1, len(v.ctrl.Display()))
	case key.Matches(msg, v.keys.Down):
		v.cursor = clamp(v.cursor+1, len(v.ctrl.Display()))
	case key.Matches(msg, v.keys.Select):
		items := v.ctrl.Display()
		if len(items) == 0 {
			return nil
		}
		return navigate(Location{Route: RouteDetail, ID: items[v.cursor].ID})
	case key.Matches(msg, v.keys.Retry):
		if v.ctrl.State() != listing.StateFailed {
			return nil
		}
		v.ctrl.Mount()
		return fetchProducts(v.mount, v.repo)
	}
	return nil
}

func (v *listView) View() string {
	var b strings.Builder

	b.WriteString(v.search.View())
	if term := v.ctrl.DebouncedTerm(); term != "" && term != v.ctrl.RawTerm() {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("  (showing %q)", term)))
	}
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Filter: ") + v.ctrl.Mode().Label() + "\n")

	if v.menuOpen {
		b.WriteString(v.menuView() + "\n")
	}

	switch v.ctrl.State() {
	case listing.StateLoading:
		b.WriteString(LabelStyle.Render("Loading products…") + "\n")
	case listing.StateFailed:
		b.WriteString(NoticeStyle.Render("Failed to load products. Press r to retry.") + "\n")
	}

	items := v.ctrl.Display()
	if len(items) > 0 {
		b.WriteString(renderTable(columnsFor(v.ctrl.Mode()), items, v.cursor, v.tableRows()) + "\n")
	} else if v.ctrl.State() == listing.StateLoaded {
		b.WriteString(LabelStyle.Render("No products match.") + "\n")
	}

	b.WriteString(LabelStyle.Render(fmt.Sprintf("%d of %d products", len(items), v.ctrl.Total())))
	b.WriteString(helpLine(v.keys.Search, v.keys.Filter, v.keys.Select, v.keys.Toggle, v.keys.Logout, v.keys.Quit))
	return b.String()
}

func (v *listView) menuView() string {
	lines := make([]string, 0, len(product.Modes()))
	for i, mode := range product.Modes() {
		marker := "  "
		if mode == v.ctrl.Mode() {
			marker = "• "
		}
		line := fmt.Sprintf("%s%d. %s", marker, i+1, mode.Label())
		if i == v.menuIndex {
			line = TitleStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return PanelFocusedStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// tableRows is the number of data rows that fit below the controls.
func (v *listView) tableRows() int {
	if v.height == 0 {
		return 0
	}
	reserved := 10
	if v.menuOpen {
		reserved += len(product.Modes()) + 2
	}
	return max(v.height-reserved, 3)
}
