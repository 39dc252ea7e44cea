package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/klemjul/advisor/internal/chat"
	"github.com/klemjul/advisor/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLLMClient struct {
	mock.Mock
}

func (c *MockLLMClient) Send(ctx context.Context, messages []llm.Message) (*llm.LLMSendResponse, error) {
	args := c.Called(ctx, messages)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*llm.LLMSendResponse), args.Error(1)
}

func newTestModel(t *testing.T, client llm.LLMClient) ChatTUIModel {
	t.Helper()
	return InitialModel(InitialModelOptions{
		Title:        t.Name(),
		SystemPrompt: "be a beauty advisor",
		Client:       client,
		Logger:       slog.New(slog.DiscardHandler),
		Context:      t.Context(),
	})
}

func entryTexts(m ChatTUIModel) []string {
	var texts []string
	for _, e := range m.surface.Entries() {
		texts = append(texts, e.Text)
	}
	return texts
}

func pressEnter(t *testing.T, m ChatTUIModel, input string) (ChatTUIModel, tea.Cmd) {
	t.Helper()
	m.surface.textInput.SetValue(input)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(ChatTUIModel), cmd
}

func TestInitialModel(t *testing.T) {
	m := newTestModel(t, &MockLLMClient{})

	assert.Equal(t, t.Name(), m.title)
	assert.Equal(t, CHAT_INPUT_PLACEHOLDER, m.surface.textInput.Placeholder)
	assert.True(t, m.surface.textInput.Focused())
	assert.Equal(t, 0, m.surface.viewport.Height)
	assert.Equal(t, 0, m.surface.viewport.Width)
	assert.Empty(t, m.surface.Entries())
	require.NotNil(t, m.Session())
	assert.Equal(t, []llm.Message{
		{Role: llm.System, Content: "be a beauty advisor", Hidden: true},
	}, m.Session().History())
}

func TestInitialModel_DefaultContext(t *testing.T) {
	m := InitialModel(InitialModelOptions{Client: &MockLLMClient{}, Logger: slog.New(slog.DiscardHandler)})

	assert.NotNil(t, m.ctx)
}

func TestModelUpdate_WindowSizeMsg(t *testing.T) {
	tests := []struct {
		name      string
		screenW   int
		screenH   int
		expectedW int
		expectedH int
		uiTitle   string
	}{
		{
			name:      "title in ui width",
			screenW:   80,
			screenH:   24,
			expectedW: 80,
			expectedH: 19,
			uiTitle:   "with one line title",
		},
		{
			name:      "title exceed ui width",
			screenW:   10,
			screenH:   24,
			expectedW: 10,
			expectedH: 18,
			uiTitle:   "with one line title",
		},
		{
			name:      "tiny screen clamps height",
			screenW:   5,
			screenH:   3,
			expectedW: 5,
			expectedH: 0,
			uiTitle:   "with two lines title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			initModel := InitialModel(InitialModelOptions{
				Client: &MockLLMClient{},
				Title:  tc.uiTitle,
				Logger: slog.New(slog.DiscardHandler),
			})

			updatedModel, cmd := initModel.Update(tea.WindowSizeMsg{Width: tc.screenW, Height: tc.screenH})
			updated := updatedModel.(ChatTUIModel)

			assert.Equal(t, tc.expectedH, updated.surface.viewport.Height)
			assert.Equal(t, tc.expectedW, updated.surface.viewport.Width)
			assert.Nil(t, cmd, "WindowSizeMsg should not return a command")
		})
	}
}

func TestModelUpdate_MouseMsg(t *testing.T) {
	initContent := strings.Repeat("line\n", 20)
	initYOffset := 10
	testCases := []struct {
		name            string
		msg             tea.MouseMsg
		expectedYOffset int
	}{
		{
			name: "wheel up",
			msg: tea.MouseMsg{
				Action: tea.MouseActionPress,
				Button: tea.MouseButtonWheelUp,
			},
			expectedYOffset: 9,
		},
		{
			name: "wheel down",
			msg: tea.MouseMsg{
				Action: tea.MouseActionPress,
				Button: tea.MouseButtonWheelDown,
			},
			expectedYOffset: 11,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			initModel := newTestModel(t, &MockLLMClient{})
			initModel.surface.viewport.Height = 5
			initModel.surface.viewport.SetContent(initContent)
			initModel.surface.viewport.SetYOffset(initYOffset)

			updatedModel, cmd := initModel.Update(tc.msg)
			updated := updatedModel.(ChatTUIModel)

			assert.Equal(t, tc.expectedYOffset, updated.surface.viewport.YOffset)
			assert.Nil(t, cmd, "Mouse message should not return a command")
		})
	}
}

func TestModelUpdate_KeyQuits(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := newTestModel(t, &MockLLMClient{})

		_, cmd := m.Update(tea.KeyMsg{Type: key})

		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModelUpdate_EnterSubmitsTurn(t *testing.T) {
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, []llm.Message{
		{Role: llm.System, Content: "be a beauty advisor", Hidden: true},
		{Role: llm.User, Content: "What sunscreen suits oily skin?"},
	}).Return(&llm.LLMSendResponse{Content: "Try La Roche-Posay Anthelios gel."}, nil).Once()
	m := newTestModel(t, client)

	m, cmd := pressEnter(t, m, "What sunscreen suits oily skin?")

	require.NotNil(t, cmd)
	assert.Equal(t, "", m.surface.textInput.Value())
	assert.Equal(t, []string{"What sunscreen suits oily skin?", chat.PendingPlaceholder}, entryTexts(m))
	assert.Equal(t, 1, m.Session().Pending())
	assert.Contains(t, m.View(), "Waiting for 1 response(s)")
	client.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	updated, next := m.Update(cmd())
	m = updated.(ChatTUIModel)

	assert.Nil(t, next)
	assert.Equal(t, []string{"What sunscreen suits oily skin?", "Try La Roche-Posay Anthelios gel."}, entryTexts(m))
	assert.Equal(t, 0, m.Session().Pending())
	assert.Len(t, m.Session().History(), 3)
	assert.NotContains(t, m.View(), "Waiting for")
	client.AssertExpectations(t)
}

func TestModelUpdate_EnterWithBlankInput(t *testing.T) {
	client := &MockLLMClient{}
	m := newTestModel(t, client)

	m, cmd := pressEnter(t, m, "   ")

	assert.Nil(t, cmd)
	assert.Empty(t, m.surface.Entries())
	assert.Len(t, m.Session().History(), 1)
	assert.Equal(t, "   ", m.surface.textInput.Value())
}

func TestModelUpdate_FailedTurnShowsErrorReply(t *testing.T) {
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, mock.Anything).
		Return(nil, &llm.HTTPError{StatusCode: 503, Body: "unavailable"}).Once()
	m := newTestModel(t, client)

	m, cmd := pressEnter(t, m, "Any night cream?")
	updated, _ := m.Update(cmd())
	m = updated.(ChatTUIModel)

	assert.Equal(t, []string{"Any night cream?", chat.ErrorReply}, entryTexts(m))
	assert.Len(t, m.Session().History(), 2)
}

func TestModelUpdate_InputStaysOpenWhilePending(t *testing.T) {
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, mock.Anything).
		Return(&llm.LLMSendResponse{Content: "answer"}, nil)
	m := newTestModel(t, client)

	m, first := pressEnter(t, m, "first")
	m, second := pressEnter(t, m, "second")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.True(t, m.surface.textInput.Focused())
	assert.Equal(t, 2, m.Session().Pending())

	updated, _ := m.Update(second())
	m = updated.(ChatTUIModel)
	updated, _ = m.Update(first())
	m = updated.(ChatTUIModel)

	assert.Equal(t, []string{"first", "second", "answer", "answer"}, entryTexts(m))
	assert.Equal(t, 0, m.Session().Pending())
}

func TestModelUpdate_DuplicateResultIsIgnored(t *testing.T) {
	client := &MockLLMClient{}
	client.On("Send", mock.Anything, mock.Anything).
		Return(nil, &llm.TransportError{Err: errors.New("timeout")}).Once()
	m := newTestModel(t, client)

	m, cmd := pressEnter(t, m, "hello")
	result := cmd()
	updated, _ := m.Update(result)
	m = updated.(ChatTUIModel)
	updated, _ = m.Update(result)
	m = updated.(ChatTUIModel)

	assert.Equal(t, []string{"hello", chat.ErrorReply}, entryTexts(m))
}

func TestModelUpdate_KeyRune(t *testing.T) {
	m := newTestModel(t, &MockLLMClient{})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.Nil(t, cmd)
	assert.Equal(t, "a", updated.(ChatTUIModel).surface.textInput.Value())
}

func TestUpdateViewport(t *testing.T) {
	m := newTestModel(t, &MockLLMClient{})
	m.surface.resize(80, 20)

	m.surface.Append("Hello", llm.User)
	m.surface.Append("Hi there!", llm.Assistant)
	m.surface.Append("How are you?", llm.User)

	content := m.surface.viewport.View()
	assert.Contains(t, content, CHAT_GREETING)
	assert.Contains(t, content, "> Hello", "User messages should be prefixed with '>'")
	assert.Contains(t, content, "> How are you?", "User messages should be prefixed with '>'")
	assert.Contains(t, content, "there!")
}

func TestUpdateViewport_SystemPromptIsNotRendered(t *testing.T) {
	m := newTestModel(t, &MockLLMClient{})
	m.surface.resize(80, 20)

	assert.NotContains(t, m.surface.viewport.View(), "be a beauty advisor")
}

func TestSurface_RemoveRefreshesViewport(t *testing.T) {
	m := newTestModel(t, &MockLLMClient{})
	m.surface.resize(80, 20)

	h := m.surface.Append(chat.PendingPlaceholder, llm.Assistant)
	assert.Contains(t, m.surface.viewport.View(), chat.PendingPlaceholder)

	assert.True(t, m.surface.Remove(h))
	assert.False(t, m.surface.Remove(h))
	assert.NotContains(t, m.surface.viewport.View(), chat.PendingPlaceholder)
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, &MockLLMClient{})
	m.surface.resize(60, 10)
	m.surface.textInput.SetValue("Hello")

	view := m.View()

	assert.Contains(t, view, "Hello")
	assert.Contains(t, view, t.Name())
	assert.NotContains(t, view, "Waiting for")
}
