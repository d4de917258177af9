package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/catalog-viewer/internal/domain/product"
	"github.com/xenking/catalog-viewer/internal/listing"
)

func newTestListView(t *testing.T, repo *fakeRepo) (*listView, func(time.Duration)) {
	t.Helper()
	opts, clock := newTestOptions(repo)
	opts.setDefaults()
	v := newListView(testMount(t, 1), opts.Keys, opts)
	t.Cleanup(v.Close)
	return v, clock.Advance
}

func loadedListView(t *testing.T, repo *fakeRepo) (*listView, func(time.Duration)) {
	t.Helper()
	v, advance := newTestListView(t, repo)
	v.ctrl.Mount()
	v.Update(runCmd(t, fetchProducts(v.mount, v.repo)))
	require.Equal(t, listing.StateLoaded, v.ctrl.State())
	return v, advance
}

func displayIDs(v *listView) []int {
	out := make([]int, 0, len(v.ctrl.Display()))
	for _, d := range v.ctrl.Display() {
		out = append(out, d.ID)
	}
	return out
}

func TestListView_LoadsOnce(t *testing.T) {
	repo := newFakeRepo()
	v, _ := loadedListView(t, repo)

	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, []int{1, 2, 3}, displayIDs(v))
	assert.Contains(t, v.View(), "Essence Mascara")
	assert.Contains(t, v.View(), "3 of 3 products")
}

func TestListView_FailedShowsNoticeAndRetries(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("dial tcp: connection refused")
	v, _ := newTestListView(t, repo)
	v.ctrl.Mount()

	v.Update(runCmd(t, fetchProducts(v.mount, v.repo)))
	require.Equal(t, listing.StateFailed, v.ctrl.State())
	assert.Empty(t, v.ctrl.Display())
	assert.Contains(t, v.View(), "Failed to load products")

	repo.listErr = nil
	cmd := v.Update(runes("r"))
	assert.Equal(t, listing.StateLoading, v.ctrl.State())
	v.Update(runCmd(t, cmd))

	assert.Equal(t, listing.StateLoaded, v.ctrl.State())
	assert.Equal(t, 2, repo.listCalls)
}

func TestListView_RetryIgnoredWhenLoaded(t *testing.T) {
	repo := newFakeRepo()
	v, _ := loadedListView(t, repo)

	assert.Nil(t, v.Update(runes("r")))
	assert.Equal(t, 1, repo.listCalls)
}

func TestListView_SearchSettlesAfterQuietPeriod(t *testing.T) {
	v, advance := loadedListView(t, newFakeRepo())
	before := v.ctrl.Recomputes()

	v.Update(runes("/"))
	require.True(t, v.Capturing())
	typeText(v.Update, "pow")

	assert.Equal(t, "pow", v.ctrl.RawTerm())
	assert.Equal(t, before, v.ctrl.Recomputes())
	assert.Equal(t, []int{1, 2, 3}, displayIDs(v))

	advance(time.Second)
	msg := runCmd(t, v.waitSettled())
	settled, ok := msg.(settledMsg)
	require.True(t, ok)
	assert.Equal(t, "pow", settled.term)

	next := v.Update(msg)
	assert.NotNil(t, next, "keeps listening for settled terms")
	assert.Equal(t, before+1, v.ctrl.Recomputes())
	assert.Equal(t, []int{3}, displayIDs(v))

	v.Update(keyOf(tea.KeyEsc))
	assert.False(t, v.Capturing())
}

func TestListView_FilterMenu(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		wantMode product.FilterMode
		wantIDs  []int
		column   string
	}{
		{
			name:     "quick pick",
			keys:     []tea.KeyMsg{runes("f"), runes("4")},
			wantMode: product.ModeSortByRating,
			wantIDs:  []int{3, 2, 1},
			column:   "Rating",
		},
		{
			name:     "arrows and enter",
			keys:     []tea.KeyMsg{runes("f"), keyOf(tea.KeyDown), keyOf(tea.KeyDown), keyOf(tea.KeyEnter)},
			wantMode: product.ModeTotalPrice,
			wantIDs:  []int{1, 2, 3},
			column:   "Total Price",
		},
		{
			name:     "price above threshold",
			keys:     []tea.KeyMsg{runes("f"), runes("2")},
			wantMode: product.ModePriceAboveThreshold,
			wantIDs:  []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := loadedListView(t, newFakeRepo())
			for _, k := range tt.keys {
				v.Update(k)
			}

			assert.False(t, v.menuOpen)
			assert.Equal(t, tt.wantMode, v.ctrl.Mode())
			assert.Equal(t, tt.wantIDs, displayIDs(v))
			if tt.column != "" {
				assert.Contains(t, v.View(), tt.column)
			}
		})
	}
}

func TestListView_TotalPriceColumn(t *testing.T) {
	v, _ := loadedListView(t, newFakeRepo())
	assert.NotContains(t, v.View(), "Total Price")

	v.Update(runes("f"))
	v.Update(runes("3"))

	// 9.99 * (1 - 0.0717) = 9.2737...
	assert.Contains(t, v.View(), "$9.27")
}

func TestListView_MenuEscKeepsMode(t *testing.T) {
	v, _ := loadedListView(t, newFakeRepo())
	v.Update(runes("f"))
	require.True(t, v.Capturing())

	v.Update(keyOf(tea.KeyEsc))

	assert.False(t, v.Capturing())
	assert.Equal(t, product.ModeAll, v.ctrl.Mode())
}

func TestListView_EnterOpensDetail(t *testing.T) {
	v, _ := loadedListView(t, newFakeRepo())
	v.Update(keyOf(tea.KeyDown))

	msg := runCmd(t, v.Update(keyOf(tea.KeyEnter)))

	assert.Equal(t, navigateMsg{to: Location{Route: RouteDetail, ID: 2}}, msg)
}

func TestListView_CloseStopsListening(t *testing.T) {
	v, _ := newTestListView(t, newFakeRepo())
	wait := v.waitSettled()
	v.Close()

	msg := runCmd(t, wait)
	assert.Equal(t, settledMsg{gen: 1}, msg)
	assert.Nil(t, v.Update(msg))
}

func TestWindow(t *testing.T) {
	tests := []struct {
		cursor, total, height int
		start, end            int
	}{
		{cursor: 0, total: 5, height: 0, start: 0, end: 5},
		{cursor: 0, total: 5, height: 10, start: 0, end: 5},
		{cursor: 0, total: 30, height: 10, start: 0, end: 10},
		{cursor: 15, total: 30, height: 10, start: 10, end: 20},
		{cursor: 29, total: 30, height: 10, start: 20, end: 30},
	}
	for _, tt := range tests {
		start, end := window(tt.cursor, tt.total, tt.height)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}
