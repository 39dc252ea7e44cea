package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/klemjul/advisor/internal/chat"
	"github.com/klemjul/advisor/internal/format"
	"github.com/klemjul/advisor/internal/llm"
)

// Surface renders a chat transcript into a viewport and owns the text input.
// It implements chat.Display and must only be used from the update loop.
type Surface struct {
	transcript *chat.Transcript
	textInput  textinput.Model
	viewport   viewport.Model
	greeting   string
}

func newSurface(greeting string) *Surface {
	ti := textinput.New()
	ti.Placeholder = CHAT_INPUT_PLACEHOLDER
	ti.Focus()

	s := &Surface{
		transcript: chat.NewTranscript(),
		textInput:  ti,
		viewport:   viewport.New(0, 0),
		greeting:   greeting,
	}
	s.updateViewport()
	return s
}

func (s *Surface) Append(text string, role llm.MessageRole) chat.Handle {
	h := s.transcript.Append(text, role)
	s.updateViewport()
	return h
}

func (s *Surface) Remove(h chat.Handle) bool {
	removed := s.transcript.Remove(h)
	if removed {
		s.updateViewport()
	}
	return removed
}

func (s *Surface) ClearInput() {
	s.textInput.SetValue("")
	s.transcript.ClearInput()
}

func (s *Surface) Entries() []chat.Entry {
	return s.transcript.Entries()
}

func (s *Surface) resize(width, height int) {
	s.viewport = viewport.New(max(width, 0), max(height, 0))
	s.updateViewport()
}

func (s *Surface) updateViewport() {
	displayed := make([]string, 0, s.transcript.Len()+1)
	if s.greeting != "" {
		displayed = append(displayed, greetingStyle.Render(s.greeting))
	}
	for _, entry := range s.transcript.Entries() {
		displayed = append(displayed, s.renderEntry(entry))
	}

	s.viewport.SetContent(strings.Join(displayed, "\n\n"))
	s.viewport.GotoBottom()
}

func (s *Surface) renderEntry(entry chat.Entry) string {
	switch {
	case entry.Role == llm.User:
		return userStyle.Render(fmt.Sprintf("> %s", entry.Text))
	case entry.Text == chat.PendingPlaceholder:
		return pendingStyle.Render(entry.Text)
	case entry.Text == chat.ErrorReply:
		return errorStyle.Render(entry.Text)
	default:
		out, err := format.FormatMarkdownWidth(entry.Text, s.viewport.Width)
		if err != nil {
			out = entry.Text
		}
		return botStyle.Render(strings.TrimSpace(out))
	}
}
