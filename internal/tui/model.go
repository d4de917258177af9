package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-faster/sdk/zctx"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/xenking/catalog-viewer/internal/domain/auth"
	"github.com/xenking/catalog-viewer/internal/domain/product"
	"github.com/xenking/catalog-viewer/internal/listing"
)

// Route names a navigable view.
type Route int

const (
	RouteLogin Route = iota
	RouteProducts
	RouteDetail
	RouteSummary
)

func (r Route) String() string {
	switch r {
	case RouteProducts:
		return "products"
	case RouteDetail:
		return "detail"
	case RouteSummary:
		return "summary"
	default:
		return "login"
	}
}

// Location is a route plus its parameter.
type Location struct {
	Route Route
	ID    int
}

// Options configures the root model.
type Options struct {
	Repo      product.Repository
	Validator *auth.Validator

	// Debounce is the quiet period for the product search box. Negative
	// values select listing.DefaultDebounce.
	Debounce time.Duration
	Clock    clockwork.Clock
	Keys     KeyMap
}

func (o *Options) setDefaults() {
	if o.Validator == nil {
		o.Validator = auth.NewValidator()
	}
	if o.Debounce < 0 {
		o.Debounce = listing.DefaultDebounce
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if len(o.Keys.Modes) == 0 {
		o.Keys = DefaultKeyMap()
	}
}

// screen is a mounted view.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	// Capturing reports whether the view currently owns all keys, e.g. while
	// a text input is focused.
	Capturing() bool
	SetSize(width, height int)
	// Close releases the view. Pending fetches and timers are cancelled.
	Close()
}

// mount is the per-mount context handed to a view. Every navigation creates
// a new one with a fresh generation.
type mount struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    int
}

// generational is implemented by asynchronous results addressed to a
// specific mount.
type generational interface {
	generation() int
}

type navigateMsg struct{ to Location }

type loggedInMsg struct{ email string }

func navigate(to Location) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	opts Options
	keys KeyMap

	gen     int
	loc     Location
	history []Location
	current screen

	email         string
	width, height int
}

// New creates the root model, starting at the login view.
func New(ctx context.Context, opts Options) *Model {
	opts.setDefaults()
	m := &Model{
		ctx:  ctx,
		opts: opts,
		keys: opts.Keys,
	}
	m.mount(Location{Route: RouteLogin})
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.current.Init()
}

// Location returns the current location.
func (m *Model) Location() Location { return m.loc }

// Generation returns the generation of the current mount.
func (m *Model) Generation() int { return m.gen }

// Close releases the current view.
func (m *Model) Close() {
	if m.current != nil {
		m.current.Close()
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	lg := zctx.From(m.ctx)

	if g, ok := msg.(generational); ok && g.generation() != m.gen {
		lg.Debug("Dropping result for unmounted view",
			zap.Int("gen", g.generation()),
			zap.Int("current", m.gen),
		)
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.current.SetSize(m.width, m.contentHeight())
		return m, nil

	case loggedInMsg:
		m.email = msg.email
		lg.Info("Logged in", zap.String("email", msg.email))
		m.history = nil
		return m, m.goTo(Location{Route: RouteProducts}, false)

	case navigateMsg:
		return m, m.goTo(msg.to, true)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.Close()
			return m, tea.Quit
		}
		if m.current.Capturing() {
			return m, m.current.Update(msg)
		}
		if cmd, ok := m.handleGlobal(msg); ok {
			return m, cmd
		}
	}

	return m, m.current.Update(msg)
}

func (m *Model) handleGlobal(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.loc.Route == RouteLogin {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.Logout):
		zctx.From(m.ctx).Info("Logged out", zap.String("email", m.email))
		m.email = ""
		m.history = nil
		return m.goTo(Location{Route: RouteLogin}, false), true
	case key.Matches(msg, m.keys.Toggle):
		to := Location{Route: RouteSummary}
		if m.loc.Route == RouteSummary {
			to = Location{Route: RouteProducts}
		}
		return m.goTo(to, true), true
	case key.Matches(msg, m.keys.Back):
		if len(m.history) == 0 {
			return nil, true
		}
		prev := m.history[len(m.history)-1]
		m.history = m.history[:len(m.history)-1]
		return m.goTo(prev, false), true
	}
	return nil, false
}

// goTo mounts a fresh view at to, optionally recording the current location
// for esc.
func (m *Model) goTo(to Location, push bool) tea.Cmd {
	if push {
		m.history = append(m.history, m.loc)
	}
	zctx.From(m.ctx).Debug("Navigate",
		zap.Stringer("from", m.loc.Route),
		zap.Stringer("to", to.Route),
		zap.Int("id", to.ID),
	)
	m.mount(to)
	return m.current.Init()
}

func (m *Model) mount(to Location) {
	m.Close()
	m.gen++
	ctx, cancel := context.WithCancel(m.ctx)
	mt := mount{ctx: ctx, cancel: cancel, gen: m.gen}

	switch to.Route {
	case RouteProducts:
		m.current = newListView(mt, m.keys, m.opts)
	case RouteDetail:
		m.current = newDetailView(mt, m.keys, m.opts.Repo, to.ID)
	case RouteSummary:
		m.current = newSummaryView(mt, m.keys, m.opts.Repo)
	default:
		m.current = newLoginView(mt, m.keys, m.opts.Validator)
	}
	m.loc = to
	m.current.SetSize(m.width, m.contentHeight())
}

// contentHeight is the height left for the view below the header.
func (m *Model) contentHeight() int {
	return max(m.height-2, 0)
}

func (m *Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.current.View())
}

func (m *Model) header() string {
	if m.loc.Route == RouteLogin {
		return HeaderStyle.Render("Catalog Viewer")
	}
	tab := func(label string, active bool) string {
		if active {
			return TabActiveStyle.Render(label)
		}
		return TabStyle.Render(label)
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		HeaderStyle.Render("Catalog Viewer"),
		tab("Products", m.loc.Route == RouteProducts),
		tab("Summary", m.loc.Route == RouteSummary),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs, LabelStyle.Render("  "+m.email))
}
