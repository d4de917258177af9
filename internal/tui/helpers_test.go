package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/xenking/catalog-viewer/internal/domain/product"
)

type fakeRepo struct {
	mu        sync.Mutex
	products  []product.Product
	details   map[int]*product.Detail
	listErr   error
	getErr    error
	listCalls int
	getCalls  int
}

func (r *fakeRepo) List(context.Context) ([]product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.products, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int) (*product.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	d, ok := r.details[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return d, nil
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: []product.Product{
			{ID: 1, Title: "Essence Mascara", Price: 9.99, DiscountPercentage: 7.17, Rating: 2.56, Stock: 5},
			{ID: 2, Title: "Eyeshadow Palette", Price: 19.99, Rating: 2.86, Stock: 44},
			{ID: 3, Title: "Powder Canister", Price: 14.99, Rating: 4.64, Stock: 59},
		},
		details: map[int]*product.Detail{
			1: {
				Product:             product.Product{ID: 1, Title: "Essence Mascara", Price: 9.99, DiscountPercentage: 7.17, Rating: 2.56, Stock: 5},
				WarrantyInformation: "1 month warranty",
				ShippingInformation: "Ships in 1 month",
				AvailabilityStatus:  "Low Stock",
				Reviews: []product.Review{
					{Rating: 2, Comment: "Very unhappy with my purchase!", Date: "2024-05-23T08:56:21.618Z", ReviewerName: "John Doe"},
				},
			},
		},
	}
}

func testMount(t *testing.T, gen int) mount {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return mount{ctx: ctx, cancel: cancel, gen: gen}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// typeText feeds s one rune at a time.
func typeText(update func(tea.Msg) tea.Cmd, s string) {
	for _, r := range s {
		update(runes(string(r)))
	}
}

// runCmd executes cmd, failing the test if it blocks for too long.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not complete")
		return nil
	}
}

func newTestOptions(repo product.Repository) (Options, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return Options{
		Repo:     repo,
		Debounce: time.Second,
		Clock:    clock,
	}, clock
}
