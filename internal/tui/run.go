package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/faisalkp/mahaldesk/internal/engine"
	"github.com/faisalkp/mahaldesk/internal/model"
)

// RunMembers runs the member list screen until the user quits.
func RunMembers(ctx context.Context, eng *engine.Members) error {
	cfg := Config[model.Member]{
		Title: "Members",
		Columns: []table.Column{
			{Title: "Name", Width: 24},
			{Title: "Reg No", Width: 8},
			{Title: "Phone", Width: 13},
			{Title: "House", Width: 16},
			{Title: "Mayyath", Width: 8},
			{Title: "Status", Width: 8},
		},
		Row:           memberRow,
		Name:          model.Member.DisplayName,
		Key:           model.Member.Key,
		Ctrl:          eng.Controller(),
		Swipe:         eng.Swipe(),
		FilterChoices: eng.FilterChoices,
		Load:          eng.Load,
		LoadMore:      eng.LoadMore,
		Delete:        eng.Delete,
		Toggle:        eng.ToggleMayyathu,
		ToggleVerb:    "updated mayyathu status for",
	}
	return run(ctx, cfg)
}

// RunCollections runs the money collection list screen until the user quits.
func RunCollections(ctx context.Context, eng *engine.Collections) error {
	cfg := Config[model.Collection]{
		Title: "Collections",
		Columns: []table.Column{
			{Title: "Receipt", Width: 8},
			{Title: "Collected By", Width: 20},
			{Title: "Amount", Width: 10},
			{Title: "Category", Width: 14},
			{Title: "Date", Width: 10},
			{Title: "Status", Width: 8},
		},
		Row:           collectionRow,
		Name:          model.Collection.DisplayName,
		Key:           model.Collection.Key,
		Ctrl:          eng.Controller(),
		Swipe:         eng.Swipe(),
		FilterChoices: eng.FilterChoices,
		Load:          eng.Load,
		LoadMore:      eng.LoadMore,
		Delete:        eng.Delete,
	}
	return run(ctx, cfg)
}

// run wires the screen into a bubbletea program. Debounce quiescence and
// store mutations re-enter the event loop through Send, so all repaints
// happen on the program goroutine.
func run[T any](ctx context.Context, cfg Config[T]) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	screen := NewScreen(ctx, cfg)
	p := tea.NewProgram(screen, tea.WithAltScreen(), tea.WithContext(ctx))

	cfg.Ctrl.SetRefetchHook(func() {
		p.Send(refetchMsg{})
	})
	unsubscribe := cfg.Ctrl.Store().Subscribe(func() {
		p.Send(storeChangedMsg{})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("list screen failed: %w", err)
	}
	return nil
}

func memberRow(m model.Member) table.Row {
	mayyath := "no"
	if m.MayyathuStatus {
		mayyath = "yes"
	}
	return table.Row{m.DisplayName(), m.RegNo, m.Phone, m.HouseName, mayyath, statusCell(m.Status)}
}

func collectionRow(c model.Collection) table.Row {
	date := ""
	if !c.Date.IsZero() {
		date = c.Date.Format("2006-01-02")
	}
	return table.Row{c.ReceiptNo, c.DisplayName(), fmt.Sprintf("%.2f", c.Amount), c.Category, date, statusCell(c.Status)}
}

func statusCell(s model.DerivedStatus) string {
	switch s {
	case model.StatusPaid:
		return DefaultTheme.StatusPaid.Render(string(s))
	case model.StatusDue:
		return DefaultTheme.StatusDue.Render(string(s))
	case model.StatusOverdue:
		return DefaultTheme.StatusOverdue.Render(string(s))
	default:
		return lipgloss.NewStyle().Foreground(DefaultTheme.Muted).Render("-")
	}
}
