package ui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/klemjul/advisor/internal/chat"
	"github.com/klemjul/advisor/internal/llm"
)

type ChatTUIModel struct {
	surface *Surface
	session *chat.Session
	title   string
	ctx     context.Context
}

const (
	CHAT_INPUT_PLACEHOLDER = "Ask about skincare, makeup or haircare..."
	CHAT_GREETING          = "👋 Hello! How can I help you today?"
	CHAT_PENDING_STATUS    = "⏳ Waiting for %d response(s)..."
)

var (
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	greetingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)
	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true)
)

type InitialModelOptions struct {
	Title        string
	SystemPrompt string
	Client       llm.LLMClient
	Logger       *slog.Logger
	// Context bounds every request; defaults to context.Background.
	Context context.Context
}

// turnResultMsg carries a finished request back to the update loop.
type turnResultMsg struct {
	turn *chat.Turn
	res  *llm.LLMSendResponse
	err  error
}

func InitialModel(opts InitialModelOptions) ChatTUIModel {
	surface := newSurface(CHAT_GREETING)
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return ChatTUIModel{
		surface: surface,
		session: chat.NewSession(chat.SessionOptions{
			SystemPrompt: opts.SystemPrompt,
			Client:       opts.Client,
			Display:      surface,
			Logger:       opts.Logger,
		}),
		title: opts.Title,
		ctx:   ctx,
	}
}

func (m ChatTUIModel) Session() *chat.Session {
	return m.session
}

func (m ChatTUIModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.EnableMouseCellMotion,
	)
}

func (m ChatTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		titleLines := 1
		if msg.Width > 0 {
			titleLines = (len(m.title) / msg.Width) + 1
		}
		m.surface.resize(msg.Width, msg.Height-(4+titleLines))

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.surface.viewport.ScrollUp(1)
			case tea.MouseButtonWheelDown:
				m.surface.viewport.ScrollDown(1)
			}
		}

	case turnResultMsg:
		_ = m.session.Resolve(msg.turn, msg.res, msg.err)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			cmd = tea.Quit
		case tea.KeyEnter:
			if turn, ok := m.session.Submit(m.surface.textInput.Value()); ok {
				cmd = m.request(turn)
			}
		}
	}

	m.surface.textInput, _ = m.surface.textInput.Update(msg)

	return m, cmd
}

func (m ChatTUIModel) request(turn *chat.Turn) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		res, err := session.Request(ctx, turn)
		return turnResultMsg{turn: turn, res: res, err: err}
	}
}

func (m ChatTUIModel) View() string {
	status := ""
	if pending := m.session.Pending(); pending > 0 {
		status = fmt.Sprintf(CHAT_PENDING_STATUS, pending)
	}

	width := m.surface.viewport.Width
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(width).Render(m.title),
		m.surface.viewport.View(),
		inputStyle.Width(width).Render(m.surface.textInput.View()),
		statusStyle.Render(status),
	)
}
