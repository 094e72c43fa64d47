package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"simple-crud/models"
)

type keyMap struct {
	Quit      key.Binding
	NextField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Refresh   key.Binding
	Logout    key.Binding
	Confirm   key.Binding
	Deny      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		NextField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Logout:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logout")),
		Confirm:   key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
		Deny:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	}
}

// Model renders a Session with Bubble Tea. API calls run synchronously inside
// Update, each bounded by the configured timeout.
type Model struct {
	session *Session
	timeout time.Duration
	keys    keyMap

	username textinput.Model
	password textinput.Model
	newItem  textinput.Model
	edit     textinput.Model

	adding bool
	cursor int
}

func NewModel(s *Session, timeout time.Duration) Model {
	m := Model{
		session: s,
		timeout: timeout,
		keys:    defaultKeys(),
	}

	m.username = textinput.New()
	m.username.Prompt = "Username: "
	m.username.CharLimit = 64

	m.password = textinput.New()
	m.password.Prompt = "Password: "
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'
	m.password.CharLimit = 64

	m.newItem = textinput.New()
	m.newItem.Prompt = "> "
	m.newItem.Placeholder = "New item name"
	m.newItem.CharLimit = 200

	m.edit = textinput.New()
	m.edit.Prompt = "> "
	m.edit.CharLimit = 200

	m.username.Focus()
	return m
}

// Session exposes the state machine, mainly for tests.
func (m Model) Session() *Session { return m.session }

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if k.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.session.Screen == ScreenLogin {
		return m.updateLogin(k)
	}
	switch {
	case m.session.Pending != nil:
		return m.updateConfirm(k)
	case m.session.Editing != nil:
		return m.updateEdit(k)
	case m.adding:
		return m.updateAdd(k)
	}
	return m.updateItems(k)
}

func (m Model) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func (m Model) updateLogin(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case k.Type == tea.KeyEsc:
		return m, tea.Quit
	case key.Matches(k, m.keys.NextField):
		if m.username.Focused() {
			m.username.Blur()
			m.password.Focus()
		} else {
			m.password.Blur()
			m.username.Focus()
		}
		return m, nil
	case key.Matches(k, m.keys.Submit):
		ctx, cancel := m.ctx()
		defer cancel()
		m.session.Login(ctx)
		if m.session.Screen == ScreenItems {
			m.username.Blur()
			m.password.Blur()
			m.cursor = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.username.Focused() {
		m.username, cmd = m.username.Update(k)
		m.session.Username = m.username.Value()
	} else {
		m.password, cmd = m.password.Update(k)
		m.session.Password = m.password.Value()
	}
	return m, cmd
}

func (m Model) updateItems(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.session.Items
	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(k, m.keys.Add):
		m.adding = true
		m.newItem.SetValue(m.session.NewName)
		m.newItem.CursorEnd()
		cmd := m.newItem.Focus()
		return m, cmd
	case key.Matches(k, m.keys.Edit):
		if it, ok := m.selected(); ok {
			m.session.BeginEdit(it.ID)
			m.edit.SetValue(it.Name)
			m.edit.CursorEnd()
			cmd := m.edit.Focus()
			return m, cmd
		}
	case key.Matches(k, m.keys.Delete):
		if it, ok := m.selected(); ok {
			m.session.RequestDelete(it.ID)
		}
	case key.Matches(k, m.keys.Refresh):
		ctx, cancel := m.ctx()
		defer cancel()
		m.session.Refresh(ctx)
		m.clampCursor()
	case key.Matches(k, m.keys.Logout):
		m.session.Logout()
		m.reset()
	}
	return m, nil
}

func (m Model) updateAdd(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel):
		m.adding = false
		m.newItem.Blur()
		return m, nil
	case key.Matches(k, m.keys.Submit):
		ctx, cancel := m.ctx()
		defer cancel()
		if m.session.Create(ctx) {
			m.adding = false
			m.newItem.SetValue("")
			m.newItem.Blur()
			m.cursor = len(m.session.Items) - 1
			m.clampCursor()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.newItem, cmd = m.newItem.Update(k)
	m.session.NewName = m.newItem.Value()
	return m, cmd
}

func (m Model) updateEdit(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel):
		m.session.CancelEdit()
		m.edit.Blur()
		return m, nil
	case key.Matches(k, m.keys.Submit):
		ctx, cancel := m.ctx()
		defer cancel()
		m.session.SaveEdit(ctx)
		if m.session.Editing == nil {
			m.edit.Blur()
			m.clampCursor()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(k)
	m.session.SetEditName(m.edit.Value())
	return m, cmd
}

func (m Model) updateConfirm(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Confirm):
		ctx, cancel := m.ctx()
		defer cancel()
		m.session.ConfirmPending(ctx)
		m.clampCursor()
	case key.Matches(k, m.keys.Deny):
		m.session.CancelPending()
	}
	return m, nil
}

func (m Model) selected() (models.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.session.Items) {
		return models.Item{}, false
	}
	return m.session.Items[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.session.Items) {
		m.cursor = len(m.session.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// reset clears every input after logout.
func (m *Model) reset() {
	m.adding = false
	m.cursor = 0
	for _, ti := range []*textinput.Model{&m.username, &m.password, &m.newItem, &m.edit} {
		ti.SetValue("")
		ti.Blur()
	}
	m.username.Focus()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Simple App"))
	b.WriteString("\n\n")

	if m.session.Screen == ScreenLogin {
		b.WriteString(m.viewLogin())
	} else {
		b.WriteString(m.viewItems())
	}

	out := panelStyle.Render(b.String())
	if m.session.Pending != nil {
		out += "\n" + promptStyle.Render(MsgConfirmDelete+"\n"+helpStyle.Render("y confirm • n cancel"))
	}
	return out
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.username.View() + "\n")
	b.WriteString(m.password.View() + "\n")
	if m.session.LoginError != "" {
		b.WriteString("\n" + errorStyle.Render(m.session.LoginError) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("tab switch field • enter login • esc quit"))
	return b.String()
}

func (m Model) viewItems() string {
	var b strings.Builder
	if m.session.ItemError != "" {
		b.WriteString(errorStyle.Render(m.session.ItemError) + "\n\n")
	}

	b.WriteString(accentStyle.Render("Manage Items") + "\n")
	if m.adding {
		b.WriteString(m.newItem.View() + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("All Items:") + "\n")

	if len(m.session.Items) == 0 {
		b.WriteString(mutedStyle.Render("no items") + "\n")
	}
	for i, it := range m.session.Items {
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render(">") + " "
		}
		if ed := m.session.Editing; ed != nil && ed.ID == it.ID {
			b.WriteString(prefix + m.edit.View() + "\n")
			continue
		}
		b.WriteString(fmt.Sprintf("%sID: %d - Name: %s\n", prefix, it.ID, it.Name))
	}

	var help string
	switch {
	case m.session.Editing != nil:
		help = "enter save • esc cancel"
	case m.adding:
		help = "enter add • esc cancel"
	default:
		help = "a add • e edit • d delete • r refresh • l logout • q quit"
	}
	b.WriteString("\n" + helpStyle.Render(help))
	return b.String()
}
