package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/catalog-viewer/internal/domain/product"
)

// summaryView lists every product unfiltered, with links to the detail view.
type summaryView struct {
	mount
	keys KeyMap
	repo product.Repository

	loading bool
	items   []product.Derived
	err     error
	cursor  int
	height  int
}

func newSummaryView(mt mount, keys KeyMap, repo product.Repository) *summaryView {
	return &summaryView{mount: mt, keys: keys, repo: repo}
}

func (v *summaryView) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	return fetchProducts(v.mount, v.repo)
}

func (v *summaryView) Capturing() bool { return false }

func (v *summaryView) SetSize(_, height int) { v.height = height }

func (v *summaryView) Close() { v.cancel() }

func (v *summaryView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case productsMsg:
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}
		v.loading = false
		if msg.err != nil {
			zctx.From(v.ctx).Warn("Load summary", zap.Error(msg.err))
			v.err, v.items = msg.err, nil
			return nil
		}
		v.items = product.Apply(msg.products, product.ModeAll, "")
		v.cursor = clamp(v.cursor, len(v.items))
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			v.cursor = clamp(v.cursor-1, len(v.items))
		case key.Matches(msg, v.keys.Down):
			v.cursor = clamp(v.cursor+1, len(v.items))
		case key.Matches(msg, v.keys.Select):
			if len(v.items) > 0 {
				return navigate(Location{Route: RouteDetail, ID: v.items[v.cursor].ID})
			}
		case key.Matches(msg, v.keys.Retry):
			if v.err != nil {
				return v.Init()
			}
		}
	}
	return nil
}

func (v *summaryView) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Summary") + "\n")
	switch {
	case v.loading:
		b.WriteString(LabelStyle.Render("Loading products…") + "\n")
	case v.err != nil:
		b.WriteString(NoticeStyle.Render("Failed to load products. Press r to retry.") + "\n")
	case len(v.items) == 0:
		b.WriteString(LabelStyle.Render("No products.") + "\n")
	default:
		b.WriteString(renderTable(baseColumns(), v.items, v.cursor, max(v.height-6, 0)) + "\n")
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%d products", len(v.items))))
	}
	b.WriteString(helpLine(v.keys.Select, v.keys.Toggle, v.keys.Back, v.keys.Logout, v.keys.Quit))
	return b.String()
}
