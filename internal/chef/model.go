package chef

import (
	"context"
	"strings"

	"github.com/Veraticus/pennywise/internal/cli"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Title heads the chat screen.
const Title = "Chef Chat (2 ⭐ Michelin Experience)"

const (
	defaultWidth  = 80
	defaultHeight = 24
	// title, status, input and help lines around the viewport
	chromeHeight = 7
)

var (
	chefLabel = lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	userLabel = lipgloss.NewStyle().Bold(true).Foreground(cli.InfoColor)
)

type replyMsg struct {
	err   error
	reply string
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	ctx      context.Context
	chat     *Chat
	lastErr  error
	keymap   keyMap
	pending  string
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	waiting  bool
}

// NewModel builds the chat screen over chat. ctx bounds every request.
func NewModel(ctx context.Context, chat *Chat) Model {
	input := textinput.New()
	input.Placeholder = "Ask me anything!"
	input.CharLimit = 500
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(cli.PrimaryColor)

	m := Model{
		ctx:      ctx,
		chat:     chat,
		keymap:   defaultKeyMap(),
		input:    input,
		spinner:  spin,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		width:    defaultWidth,
	}
	m.refresh()
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses, window resizes and service replies.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Send):
			return m.send()
		case key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()

	case replyMsg:
		m.waiting = false
		m.pending = ""
		m.lastErr = msg.err
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) send() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.input.Value())
	if m.waiting || prompt == "" {
		return m, nil
	}

	m.waiting = true
	m.pending = prompt
	m.lastErr = nil
	m.input.Reset()
	m.refresh()

	return m, tea.Batch(m.spinner.Tick, m.ask(prompt))
}

func (m Model) ask(prompt string) tea.Cmd {
	chat := m.chat
	ctx := m.ctx
	return func() tea.Msg {
		reply, err := chat.Ask(ctx, prompt)
		return replyMsg{reply: reply, err: err}
	}
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.chat.Transcript(), m.pending, m.width))
	m.viewport.GotoBottom()
}

// View renders the chat screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(cli.TitleStyle.Render(cli.ChefIcon + " " + Title))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	switch {
	case m.waiting:
		b.WriteString(m.spinner.View() + " " + cli.SubtleStyle.Render("The chef is thinking..."))
	case m.lastErr != nil:
		b.WriteString(cli.FormatError(m.lastErr.Error()))
	}
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(m.keymap.help()))

	return b.String()
}

func renderTranscript(turns []llm.Message, pending string, width int) string {
	body := lipgloss.NewStyle().Width(max(width-2, 20)).PaddingLeft(2)

	var b strings.Builder
	write := func(label string, style lipgloss.Style, content string) {
		b.WriteString(style.Render(label))
		b.WriteString("\n")
		b.WriteString(body.Render(content))
		b.WriteString("\n\n")
	}

	for _, turn := range turns {
		if turn.Role == llm.RoleUser {
			write("You", userLabel, turn.Content)
			continue
		}
		write("Chef", chefLabel, turn.Content)
	}
	if pending != "" {
		write("You", userLabel, pending)
	}

	return strings.TrimRight(b.String(), "\n")
}
