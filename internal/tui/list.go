// Package tui renders the member and collection list screens. Both screens
// share one generic model: a scrolling table backed by a listsync
// controller, a search input feeding the debounce pipeline, and a
// reveal-then-confirm flow for destructive row actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/faisalkp/mahaldesk/internal/common"
	"github.com/faisalkp/mahaldesk/internal/listsync"
)

// listMode represents the current input mode of the screen.
type listMode int

const (
	modeNormal listMode = iota
	modeSearch
	modeConfirm
)

// nearEndRows is how close to the last visible row the cursor must be
// before the next page is fetched.
const nearEndRows = 3

// toastDuration is how long transient status messages stay on screen.
const toastDuration = 3 * time.Second

// Config wires a list screen to its engine. Toggle is optional; screens
// without a row toggle leave it nil.
type Config[T any] struct {
	Title         string
	Columns       []table.Column
	Row           func(T) table.Row
	Name          func(T) string
	Key           func(T) string
	Ctrl          *listsync.Controller[T]
	Swipe         *listsync.SwipeRegistry
	FilterChoices func() []string
	Load          func(context.Context) error
	LoadMore      func(context.Context) error
	Delete        func(context.Context, string) error
	Toggle        func(context.Context, string) error
	ToggleVerb    string
}

// Screen is the shared list screen model.
type Screen[T any] struct {
	ctx         context.Context
	cfg         Config[T]
	theme       Theme
	confirmKey  string
	confirmName string
	toast       string
	visible     []T
	searchInput textinput.Model
	table       table.Model
	spin        spinner.Model
	mode        listMode
	toastSeq    int
	width       int
	height      int
}

// NewScreen builds a screen around the given engine wiring.
func NewScreen[T any](ctx context.Context, cfg Config[T]) Screen[T] {
	t := table.New(
		table.WithColumns(cfg.Columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(DefaultTheme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = DefaultTheme.Selected
	t.SetStyles(s)

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7c3aed"))

	return Screen[T]{
		ctx:         ctx,
		cfg:         cfg,
		theme:       DefaultTheme,
		searchInput: searchInput,
		table:       t,
		spin:        sp,
		mode:        modeNormal,
		width:       80,
		height:      24,
	}
}

// Init starts the spinner and kicks off the initial load.
func (m Screen[T]) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

// Update handles messages.
func (m Screen[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateNormal(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(msg.Height - 6)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case refetchMsg:
		return m, m.loadCmd()

	case storeChangedMsg:
		m.refresh()
		return m, nil

	case loadDoneMsg:
		m.refresh()
		if msg.err != nil && len(m.visible) > 0 {
			// With rows on screen the failure is a toast, not a takeover.
			return m.showToast("reload failed: " + msg.err.Error())
		}
		return m, nil

	case loadMoreDoneMsg:
		m.refresh()
		if msg.err != nil {
			return m.showToast("could not load more: " + msg.err.Error())
		}
		return m, nil

	case mutationDoneMsg:
		m.refresh()
		if msg.err != nil {
			if errors.Is(msg.err, listsync.ErrMutationPending) {
				return m.showToast("still saving, try again in a moment")
			}
			var userErr *common.UserError
			if errors.As(msg.err, &userErr) {
				return m.showToast(userErr.UserMessage)
			}
			return m.showToast(fmt.Sprintf("%s %s failed: %v", msg.verb, msg.name, msg.err))
		}
		return m.showToast(fmt.Sprintf("%s %s", msg.verb, msg.name))

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Screen[T]) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.mode = modeSearch
		return m, m.searchInput.Focus()

	case "f":
		next := nextChoice(m.cfg.FilterChoices(), m.cfg.Ctrl.Filter().Category)
		m.cfg.Ctrl.SelectFilter(next)
		return m, nil

	case "r":
		return m, m.loadCmd()

	case "t":
		if m.cfg.Toggle == nil {
			return m, nil
		}
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.toggleCmd(m.cfg.Key(item), m.cfg.Name(item))

	case "d":
		if m.cfg.Delete == nil {
			return m, nil
		}
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmKey = m.cfg.Key(item)
		m.confirmName = m.cfg.Name(item)
		m.cfg.Swipe.Open(m.confirmKey)
		m.mode = modeConfirm
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	if more := m.maybeLoadMore(); more != nil {
		return m, tea.Batch(cmd, more)
	}
	return m, cmd
}

func (m Screen[T]) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.cfg.Ctrl.Search("")
		m.mode = modeNormal
		return m, nil
	case "enter":
		m.searchInput.Blur()
		m.mode = modeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.cfg.Ctrl.Search(m.searchInput.Value())
	return m, cmd
}

func (m Screen[T]) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		key, name := m.confirmKey, m.confirmName
		m.mode = modeNormal
		m.confirmKey = ""
		m.confirmName = ""
		return m, m.deleteCmd(key, name)
	case "n", "esc", "d":
		m.cfg.Swipe.CloseAll()
		m.mode = modeNormal
		m.confirmKey = ""
		m.confirmName = ""
		return m, nil
	}
	return m, nil
}

// View renders the screen.
func (m Screen[T]) View() string {
	if err := m.cfg.Ctrl.Err(); err != nil && len(m.visible) == 0 {
		return m.errorView(err)
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if m.mode == modeSearch {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Screen[T]) headerView() string {
	state := m.cfg.Ctrl.Filter()
	parts := []string{fmt.Sprintf("filter: %s", state.Category)}
	if state.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", state.Search))
	}
	parts = append(parts, fmt.Sprintf("%d rows", len(m.visible)))
	if m.cfg.Ctrl.HasMore() {
		parts = append(parts, "more available")
	}
	return m.theme.Title.Render(m.cfg.Title) + "  " +
		m.theme.Subtitle.Render(strings.Join(parts, " · "))
}

func (m Screen[T]) footerView() string {
	switch {
	case m.mode == modeConfirm:
		return m.theme.Confirm.Render(fmt.Sprintf("delete %s? (y/n)", m.confirmName))
	case m.cfg.Ctrl.Loading():
		return m.spin.View() + m.theme.StatusInfo.Render(" loading...")
	case m.cfg.Ctrl.LoadingMore():
		return m.spin.View() + m.theme.StatusInfo.Render(" loading more...")
	case m.toast != "":
		return m.theme.Toast.Render(m.toast)
	}
	help := "j/k move · / search · f filter · d delete · r reload · q quit"
	if m.cfg.Toggle != nil {
		help = strings.Replace(help, "d delete", "t toggle · d delete", 1)
	}
	return m.theme.Help.Render(help)
}

func (m Screen[T]) errorView(err error) string {
	body := m.theme.StatusError.Render("Could not load "+strings.ToLower(m.cfg.Title)) +
		"\n\n" + err.Error() +
		"\n\n" + m.theme.Help.Render("r retry · q quit")
	return m.theme.ErrorBox.Render(body)
}

// refresh re-reads the visible rows from the controller and repaints the
// table, clamping the cursor when rows disappeared under it.
func (m *Screen[T]) refresh() {
	m.visible = m.cfg.Ctrl.Visible()
	rows := make([]table.Row, len(m.visible))
	for i, item := range m.visible {
		rows[i] = m.cfg.Row(item)
	}
	m.table.SetRows(rows)
	if cur := m.table.Cursor(); cur >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *Screen[T]) selected() (T, bool) {
	var zero T
	cur := m.table.Cursor()
	if cur < 0 || cur >= len(m.visible) {
		return zero, false
	}
	return m.visible[cur], true
}

// maybeLoadMore fetches the next page once the cursor nears the bottom.
func (m *Screen[T]) maybeLoadMore() tea.Cmd {
	if !m.cfg.Ctrl.HasMore() || m.cfg.Ctrl.Loading() || m.cfg.Ctrl.LoadingMore() {
		return nil
	}
	if len(m.visible) == 0 || m.table.Cursor() < len(m.visible)-nearEndRows {
		return nil
	}
	return m.loadMoreCmd()
}

func (m Screen[T]) showToast(text string) (tea.Model, tea.Cmd) {
	m.toast = text
	m.toastSeq++
	seq := m.toastSeq
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

func (m Screen[T]) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{err: m.cfg.Load(m.ctx)}
	}
}

func (m Screen[T]) loadMoreCmd() tea.Cmd {
	return func() tea.Msg {
		return loadMoreDoneMsg{err: m.cfg.LoadMore(m.ctx)}
	}
}

func (m Screen[T]) deleteCmd(key, name string) tea.Cmd {
	return func() tea.Msg {
		err := m.cfg.Delete(m.ctx, key)
		if err != nil {
			err = common.NewUserError(fmt.Sprintf("could not delete %s", name), err)
		}
		return mutationDoneMsg{verb: "deleted", name: name, err: err}
	}
}

func (m Screen[T]) toggleCmd(key, name string) tea.Cmd {
	return func() tea.Msg {
		err := m.cfg.Toggle(m.ctx, key)
		if err != nil {
			err = common.NewUserError(fmt.Sprintf("could not update %s", name), err)
		}
		return mutationDoneMsg{verb: m.cfg.ToggleVerb, name: name, err: err}
	}
}

// nextChoice returns the choice after current, wrapping around. An unknown
// current value restarts at the first choice.
func nextChoice(choices []string, current string) string {
	if len(choices) == 0 {
		return current
	}
	for i, c := range choices {
		if c == current {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}
