package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"appdeck/internal/app"
	"appdeck/internal/launcher"
	"appdeck/internal/registry"
)

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Status() (app.DaemonStatus, error)
	List(context.Context) ([]registry.App, error)
	Launch(context.Context, uuid.UUID) (launcher.Result, error)
	Delete(context.Context, uuid.UUID) error
}

// Model represents the Bubble Tea state.
type Model struct {
	controller Controller

	list list.Model
	apps []registry.App

	daemonStatus app.DaemonStatus
	statusMsg    string

	err       error
	loading   bool
	launching bool
	// pendingDelete holds the id armed by the first "d" press.
	pendingDelete uuid.UUID

	lastResult *launcher.Result
	lastAppID  uuid.UUID

	width  int
	height int

	lastUpdated time.Time
}

// New constructs a TUI model with default styles.
func New(ctrl Controller) *Model {
	delegate := list.NewDefaultDelegate()
	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Apps"
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)
	lst.DisableQuitKeybindings()

	return &Model{
		controller: ctrl,
		list:       lst,
		statusMsg:  "Checking daemon status…",
		loading:    true,
	}
}

// Run spins up the Bubble Tea program with sensible defaults.
func Run(ctrl Controller) error {
	m := New(ctrl)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(checkDaemonStatusCmd(m.controller), loadAppsCmd(m.controller))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 12 {
			m.list.SetSize(msg.Width, msg.Height-12)
		}

	case daemonStatusMsg:
		m.daemonStatus = msg.status
		if msg.status.Running {
			if msg.status.PID > 0 {
				m.statusMsg = fmt.Sprintf("Daemon running (pid %d).", msg.status.PID)
			} else {
				m.statusMsg = "Daemon running."
			}
		} else {
			m.statusMsg = "Daemon is not running. Start it with `appdeck serve`."
			m.apps = nil
			m.list.SetItems(nil)
		}

	case appsLoadedMsg:
		m.loading = false
		m.err = nil
		m.apps = msg.apps
		items := make([]list.Item, 0, len(msg.apps))
		for _, a := range msg.apps {
			items = append(items, appItem{App: a})
		}
		m.list.SetItems(items)
		m.lastUpdated = time.Now()

	case launchedMsg:
		m.launching = false
		m.err = nil
		res := msg.result
		m.lastResult = &res
		m.lastAppID = msg.id

	case deletedMsg:
		m.statusMsg = fmt.Sprintf("Deleted %s.", msg.id)
		m.loading = true
		return m, loadAppsCmd(m.controller)

	case errMsg:
		m.loading = false
		m.launching = false
		m.err = msg.err

	case tea.KeyMsg:
		key := msg.String()
		if key != "d" {
			m.pendingDelete = uuid.Nil
		}
		switch key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, tea.Batch(checkDaemonStatusCmd(m.controller), loadAppsCmd(m.controller))
		case "enter":
			if current := m.currentApp(); current != nil && !m.launching {
				m.launching = true
				return m, launchCmd(m.controller, current.ID)
			}
			return m, nil
		case "d":
			current := m.currentApp()
			if current == nil {
				return m, nil
			}
			if m.pendingDelete == current.ID {
				m.pendingDelete = uuid.Nil
				return m, deleteCmd(m.controller, current.ID)
			}
			m.pendingDelete = current.ID
			m.statusMsg = fmt.Sprintf("Press d again to delete %q.", current.Name)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	statusStyle := lipgloss.NewStyle().Bold(true)
	if !m.daemonStatus.Running {
		statusStyle = statusStyle.Foreground(lipgloss.Color("203"))
	} else {
		statusStyle = statusStyle.Foreground(lipgloss.Color("42"))
	}
	b.WriteString(statusStyle.Render(m.statusMsg))
	b.WriteByte('\n')

	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	if m.loading {
		b.WriteString("Loading apps…\n")
	} else if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	if len(m.list.Items()) == 0 && !m.loading && m.err == nil && m.daemonStatus.Running {
		b.WriteString("No apps registered.\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteByte('\n')
	}

	if m.launching {
		b.WriteString("Executing command…\n")
	} else if m.lastResult != nil {
		b.WriteString(renderResult(*m.lastResult, errStyle))
		b.WriteByte('\n')
	}

	help := "Commands: q quit • r reload • enter launch • d delete"
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last update %s", m.lastUpdated.Format(time.Kitchen))
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func renderResult(res launcher.Result, errStyle lipgloss.Style) string {
	var out strings.Builder
	out.WriteString("$ " + res.Command)
	if s := strings.TrimRight(res.Stdout, "\n"); s != "" {
		out.WriteString("\n" + s)
	}
	if s := strings.TrimRight(res.Stderr, "\n"); s != "" {
		out.WriteString("\n" + errStyle.Render(s))
	}
	if !res.Success {
		out.WriteString("\n" + errStyle.Render("[Exit Status: Failed] "+res.Message))
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return box.Render(out.String())
}

// appItem adapts registry.App to the bubbles list item interface.
type appItem struct {
	App registry.App
}

func (p appItem) Title() string {
	return p.App.Name
}

func (p appItem) Description() string {
	desc := ""
	if p.App.Description != nil {
		desc = *p.App.Description
	}
	if desc == "" {
		return "$ " + p.App.Command
	}
	return fmt.Sprintf("%s | $ %s", desc, p.App.Command)
}

func (p appItem) FilterValue() string {
	return p.App.Name + " " + p.App.Command
}

func (m *Model) currentApp() *registry.App {
	if len(m.apps) == 0 {
		return nil
	}
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.apps) {
		return nil
	}
	return &m.apps[idx]
}

type daemonStatusMsg struct {
	status app.DaemonStatus
}

type appsLoadedMsg struct {
	apps []registry.App
}

type launchedMsg struct {
	id     uuid.UUID
	result launcher.Result
}

type deletedMsg struct {
	id uuid.UUID
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func checkDaemonStatusCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		status, err := ctrl.Status()
		if err != nil {
			return errMsg{err}
		}
		return daemonStatusMsg{status: status}
	}
}

func loadAppsCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		apps, err := ctrl.List(ctx)
		if err != nil {
			return errMsg{err}
		}
		return appsLoadedMsg{apps: apps}
	}
}

func launchCmd(ctrl Controller, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		res, err := ctrl.Launch(context.Background(), id)
		if err != nil && res.Message == "" {
			return errMsg{err}
		}
		return launchedMsg{id: id, result: res}
	}
}

func deleteCmd(ctrl Controller, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		if err := ctrl.Delete(ctx, id); err != nil {
			return errMsg{err}
		}
		return deletedMsg{id: id}
	}
}
