package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/xenking/catalog-viewer/internal/domain/product"
)

const (
	thumbnailWidth = 36
	titleWidth     = 40
)

// productsMsg carries the result of a list fetch.
type productsMsg struct {
	gen      int
	products []product.Product
	err      error
}

func (m productsMsg) generation() int { return m.gen }

func fetchProducts(mt mount, repo product.Repository) tea.Cmd {
	return func() tea.Msg {
		products, err := repo.List(mt.ctx)
		return productsMsg{gen: mt.gen, products: products, err: err}
	}
}

// column is one table column. Cell renders a row's value.
type column struct {
	Title string
	Cell  func(product.Derived) string
}

func baseColumns() []column {
	return []column{
		{Title: "Thumbnail", Cell: func(d product.Derived) string { return ansi.Truncate(d.Thumbnail, thumbnailWidth, "…") }},
		{Title: "Title", Cell: func(d product.Derived) string { return ansi.Truncate(d.Title, titleWidth, "…") }},
		{Title: "Price", Cell: func(d product.Derived) string { return formatPrice(d.Price) }},
		{Title: "Stock", Cell: func(d product.Derived) string { return strconv.Itoa(d.Stock) }},
	}
}

// columnsFor returns the columns shown for mode. Total Price and Rating are
// only meaningful in the modes that compute or order by them.
func columnsFor(mode product.FilterMode) []column {
	cols := baseColumns()
	switch mode {
	case product.ModeTotalPrice:
		cols = append(cols, column{Title: "Total Price", Cell: func(d product.Derived) string {
			if d.TotalPrice == nil {
				return ""
			}
			return "$" + d.TotalPriceText()
		}})
	case product.ModeSortByRating:
		cols = append(cols, column{Title: "Rating", Cell: func(d product.Derived) string {
			return strconv.FormatFloat(d.Rating, 'f', 2, 64)
		}})
	}
	return cols
}

// renderTable renders the rows visible in a window of height around cursor.
func renderTable(cols []column, items []product.Derived, cursor, height int) string {
	start, end := window(cursor, len(items), height)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Title
	}
	rows := make([][]string, 0, end-start)
	for _, d := range items[start:end] {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.Cell(d)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderCell
			case start+row == cursor:
				return SelectedStyle
			default:
				return CellStyle
			}
		})
	return t.String()
}

// window returns the [start, end) range of rows to show so that cursor
// stays visible. A non-positive height shows everything.
func window(cursor, total, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := max(cursor-height/2, 0)
	end := start + height
	if end > total {
		end = total
		start = end - height
	}
	return start, end
}

func clamp(cursor, total int) int {
	return max(min(cursor, total-1), 0)
}
