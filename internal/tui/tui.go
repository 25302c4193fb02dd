// Package tui is the single suru screen: a text field on top, the stored
// entries below.
//
// The list reloads from storage whenever the draft text changes, which
// includes the clear that follows a successful submit. With
// Options.RefreshOnAppend the envelope returned by the append is applied
// directly as well, so an empty submit also shows up immediately.
package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/suru/internal/entries"
	"github.com/idilsaglam/suru/internal/model"
	"github.com/idilsaglam/suru/internal/ui"
)

// Options tune the screen.
type Options struct {
	RefreshOnAppend bool // apply the appended envelope without waiting for a reload
	Atomic          bool // use compare-and-swap appends
	DebugLog        string
}

type loadedMsg struct {
	env model.Envelope
}

type appendedMsg struct {
	text string
	env  model.Envelope
	err  error
}

type keyMap struct {
	Submit key.Binding
	Quit   key.Binding
	Scroll key.Binding
}

var keys = keyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
	Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	Scroll: key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
}

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	model.Item
}

func (i listItem) Title() string       { return i.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// itemDelegate renders one entry per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	t := ui.Current()
	prefix := "  "
	if index == m.Index() {
		prefix = t.Accent.Render("> ")
	}
	fmt.Fprint(w, prefix+it.Text)
}

// Model is the Bubble Tea model for the screen.
type Model struct {
	ctx  context.Context
	ctrl *entries.Controller
	opts Options

	input textinput.Model
	list  list.Model
	env   model.Envelope
	draft string

	inFlight int
	status   string
	failed   bool

	width, height int
}

// New builds the screen around ctrl.
func New(ctx context.Context, ctrl *entries.Controller, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "write something"
	ti.Focus()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		ctx:   ctx,
		ctrl:  ctrl,
		opts:  opts,
		input: ti,
		list:  l,
		env:   model.Empty(),
	}
}

// Entries returns what the screen currently shows.
func (m Model) Entries() model.Envelope { return m.env }

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load())
}

func (m Model) load() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		env, status, err := ctrl.Inspect(ctx)
		if err != nil {
			log.Printf("load: %s: %v", status, err)
		}
		return loadedMsg{env: env}
	}
}

func (m Model) submit(text string) tea.Cmd {
	ctx, ctrl, atomic := m.ctx, m.ctrl, m.opts.Atomic
	return func() tea.Msg {
		var (
			env model.Envelope
			err error
		)
		if atomic {
			env, err = ctrl.AppendAtomic(ctx, text)
		} else {
			env, err = ctrl.Append(ctx, text)
		}
		if err != nil {
			log.Printf("append %q: %v", text, err)
		} else {
			log.Printf("append %q: %d items", text, env.Len())
		}
		return appendedMsg{text: text, env: env, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		cmd := m.show(msg.env)
		return m, cmd

	case appendedMsg:
		m.inFlight--
		if msg.err != nil {
			m.status, m.failed = "could not save: "+msg.err.Error(), true
			return m, nil
		}
		m.status, m.failed = "", false
		var cmds []tea.Cmd
		if m.opts.RefreshOnAppend {
			cmds = append(cmds, m.show(msg.env))
		}
		m.input.SetValue("")
		cmds = append(cmds, m.draftChanged())
		batch := tea.Batch(cmds...)
		return m, batch

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			m.inFlight++
			return m, m.submit(m.input.Value())
		case key.Matches(msg, keys.Scroll):
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	reload := m.draftChanged()
	return m, tea.Batch(cmd, reload)
}

// draftChanged reloads when the input value moved since last seen.
func (m *Model) draftChanged() tea.Cmd {
	if v := m.input.Value(); v != m.draft {
		m.draft = v
		return m.load()
	}
	return nil
}

func (m *Model) show(env model.Envelope) tea.Cmd {
	m.env = env
	items := make([]list.Item, 0, len(env.Items))
	for _, it := range env.Items {
		items = append(items, listItem{it})
	}
	return m.list.SetItems(items)
}

func (m *Model) resize() {
	// logo, input, blank, status, frame
	h := m.height - 7
	if h < 1 {
		h = 1
	}
	w := m.width - 4
	if w < 10 {
		w = 10
	}
	m.list.SetSize(w, h)
	m.input.Width = w - len(m.input.Prompt) - 2
}

func (m Model) header() string {
	t := ui.Current()
	head := t.Logo.Render("suru") + "  " + t.Muted.Render(fmt.Sprintf("%d", m.env.Len()))
	if c := m.env.Collisions(); len(c) > 0 {
		head += "  " + t.Warn.Render(fmt.Sprintf("%d timestamp collision(s)", len(c)))
	}
	return head
}

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(t.Input.Render(m.input.View()))
	b.WriteString("\n\n")
	if m.env.Len() == 0 {
		b.WriteString(t.Muted.Render("nothing yet"))
	} else {
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")
	switch {
	case m.failed:
		b.WriteString(t.Error.Render(t.SymFail + " " + m.status))
	case m.inFlight > 0:
		b.WriteString(t.Muted.Render("saving..."))
	default:
		b.WriteString(t.Muted.Render(keys.Submit.Help().Key + " " + keys.Submit.Help().Desc + " · " +
			keys.Scroll.Help().Key + " " + keys.Scroll.Help().Desc + " · " +
			keys.Quit.Help().Key + " " + keys.Quit.Help().Desc))
	}
	return ui.PanelString(b.String())
}

// Run starts the screen and blocks until the user quits.
func Run(ctx context.Context, ctrl *entries.Controller, opts Options) error {
	if opts.DebugLog != "" {
		f, err := tea.LogToFile(opts.DebugLog, "suru")
		if err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(New(ctx, ctrl, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
