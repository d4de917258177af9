package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/catalog-viewer/internal/domain/product"
)

// DetailState is the load state of the detail view.
type DetailState int

const (
	DetailLoading DetailState = iota
	DetailLoaded
	DetailNotFound
	DetailFailed
)

func (s DetailState) String() string {
	switch s {
	case DetailLoaded:
		return "loaded"
	case DetailNotFound:
		return "not found"
	case DetailFailed:
		return "failed"
	default:
		return "loading"
	}
}

type detailMsg struct {
	gen    int
	detail *product.Detail
	err    error
}

func (m detailMsg) generation() int { return m.gen }

type detailView struct {
	mount
	keys KeyMap
	repo product.Repository
	id   int

	state  DetailState
	detail *product.Detail
	err    error
	width  int
}

func newDetailView(mt mount, keys KeyMap, repo product.Repository, id int) *detailView {
	v := &detailView{mount: mt, keys: keys, repo: repo, id: id}
	if id <= 0 {
		v.state = DetailNotFound
	}
	return v
}

func (v *detailView) Init() tea.Cmd {
	if v.state == DetailNotFound {
		return nil
	}
	return v.fetch()
}

func (v *detailView) fetch() tea.Cmd {
	v.state = DetailLoading
	mt, repo, id := v.mount, v.repo, v.id
	return func() tea.Msg {
		d, err := repo.GetByID(mt.ctx, id)
		return detailMsg{gen: mt.gen, detail: d, err: err}
	}
}

func (v *detailView) Capturing() bool { return false }

func (v *detailView) SetSize(width, _ int) { v.width = width }

func (v *detailView) Close() { v.cancel() }

func (v *detailView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailMsg:
		switch {
		case msg.err == nil:
			v.state, v.detail, v.err = DetailLoaded, msg.detail, nil
		case errors.Is(msg.err, product.ErrNotFound):
			v.state, v.err = DetailNotFound, nil
		case errors.Is(msg.err, context.Canceled):
		default:
			zctx.From(v.ctx).Warn("Load product", zap.Int("id", v.id), zap.Error(msg.err))
			v.state, v.err = DetailFailed, msg.err
		}
	case tea.KeyMsg:
		if key.Matches(msg, v.keys.Retry) && v.state == DetailFailed {
			return v.fetch()
		}
	}
	return nil
}

func (v *detailView) View() string {
	switch v.state {
	case DetailLoading:
		return LabelStyle.Render("Loading product…")
	case DetailNotFound:
		return ErrorStyle.Render("Product not found.") + helpLine(v.keys.Back)
	case DetailFailed:
		return NoticeStyle.Render("Failed to load product. Press r to retry.") + helpLine(v.keys.Retry, v.keys.Back)
	}

	d := v.detail
	var b strings.Builder
	b.WriteString(TitleStyle.Render(d.Title))
	if d.HasDiscount() {
		b.WriteString("  " + BadgeStyle.Render(fmt.Sprintf("-%s%%", strconv.FormatFloat(d.DiscountPercentage, 'f', -1, 64))))
	}
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%-10s", label)) + " " + value + "\n")
	}
	row("Price", formatPrice(d.Price))
	row("Rating", strconv.FormatFloat(d.Rating, 'f', 2, 64))
	row("Stock", stockLine(d))
	row("Warranty", d.WarrantyInformation)
	row("Shipping", d.ShippingInformation)
	if d.Description != "" {
		b.WriteString("\n" + d.Description + "\n")
	}

	b.WriteString("\n" + TitleStyle.Render("Reviews") + "\n")
	if len(d.Reviews) == 0 {
		b.WriteString(LabelStyle.Render("No reviews yet.") + "\n")
	}
	for _, r := range d.Reviews {
		b.WriteString(PanelStyle.Render(fmt.Sprintf("%s  %s  %s\n%s",
			r.ReviewerName,
			stars(r.Rating),
			LabelStyle.Render(r.DisplayDate()),
			r.Comment,
		)) + "\n")
	}
	b.WriteString(helpLine(v.keys.Back, v.keys.Toggle, v.keys.Quit))
	return b.String()
}

func stockLine(d *product.Detail) string {
	s := strconv.Itoa(d.Stock)
	if d.AvailabilityStatus != "" {
		s += " (" + d.AvailabilityStatus + ")"
	}
	return s
}

// stars renders a 0..5 rating as filled and empty stars.
func stars(rating float64) string {
	n := min(max(int(rating+0.5), 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
