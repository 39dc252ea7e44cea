// Package chat keeps the conversation history of one chat session and drives
// the request lifecycle of every user turn against a Display.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/klemjul/advisor/internal/llm"
)

const (
	PendingPlaceholder = "Thinking..."
	ErrorReply         = "Sorry, I encountered an error. Please try again."
)

var ErrTurnResolved = errors.New("turn already resolved")

type SessionOptions struct {
	SystemPrompt string
	Client       llm.LLMClient
	Display      Display
	Logger       *slog.Logger
}

// Turn is one submitted user message awaiting its reply. Messages is the
// history as it was right after the user message was appended.
type Turn struct {
	ID       uint64
	Messages []llm.Message

	placeholder Handle
}

type Session struct {
	id      string
	history []llm.Message
	display Display
	client  llm.LLMClient
	logger  *slog.Logger

	pending  map[uint64]*Turn
	nextTurn uint64
}

func NewSession(opts SessionOptions) *Session {
	id := uuid.Must(uuid.NewV7()).String()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		id: id,
		history: []llm.Message{
			{Role: llm.System, Content: opts.SystemPrompt, Hidden: true},
		},
		display: opts.Display,
		client:  opts.Client,
		logger:  logger.With("session_id", id),
		pending: make(map[uint64]*Turn),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) History() []llm.Message {
	return slices.Clone(s.history)
}

// Pending returns the number of turns that have not been resolved yet.
func (s *Session) Pending() int {
	return len(s.pending)
}

// Submit records a user message and renders it together with a pending
// placeholder. Blank input is ignored and reported with ok == false.
func (s *Session) Submit(text string) (turn *Turn, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	s.history = append(s.history, llm.Message{Role: llm.User, Content: text})
	s.display.Append(text, llm.User)
	s.display.ClearInput()

	s.nextTurn++
	turn = &Turn{
		ID:          s.nextTurn,
		Messages:    slices.Clone(s.history),
		placeholder: s.display.Append(PendingPlaceholder, llm.Assistant),
	}
	s.pending[turn.ID] = turn

	s.logger.Debug("turn submitted",
		"turn_id", turn.ID,
		"history_len", len(s.history),
		"pending", len(s.pending))
	return turn, true
}

// Request sends the turn's history to the client. It reads nothing but the
// turn itself, so it may run outside the goroutine that owns the session.
func (s *Session) Request(ctx context.Context, turn *Turn) (*llm.LLMSendResponse, error) {
	return s.client.Send(ctx, turn.Messages)
}

// Resolve completes a turn. On success the reply joins the history; on
// failure the history is left as it was and the fixed ErrorReply is shown.
// Either way the turn's placeholder is removed. The request error is
// returned; resolving the same turn twice returns ErrTurnResolved.
func (s *Session) Resolve(turn *Turn, res *llm.LLMSendResponse, err error) error {
	if turn == nil || s.pending[turn.ID] != turn {
		return ErrTurnResolved
	}
	delete(s.pending, turn.ID)

	if err == nil && res == nil {
		err = &llm.MalformedResponseError{Reason: "empty reply"}
	}

	s.display.Remove(turn.placeholder)

	if err != nil {
		s.logFailure(turn, err)
		s.display.Append(ErrorReply, llm.Assistant)
		return err
	}

	s.history = append(s.history, llm.Message{Role: llm.Assistant, Content: res.Content})
	s.display.Append(res.Content, llm.Assistant)

	s.logger.Info("turn completed",
		"turn_id", turn.ID,
		"history_len", len(s.history),
		"input_tokens", res.Usage.InputTokens,
		"output_tokens", res.Usage.OutputTokens)
	return nil
}

// Send submits text and waits for its reply on the calling goroutine.
func (s *Session) Send(ctx context.Context, text string) error {
	turn, ok := s.Submit(text)
	if !ok {
		return nil
	}
	res, err := s.Request(ctx, turn)
	return s.Resolve(turn, res, err)
}

func (s *Session) logFailure(turn *Turn, err error) {
	attrs := []any{
		"turn_id", turn.ID,
		"error_kind", llm.KindOf(err),
		"error", err,
	}
	var httpErr *llm.HTTPError
	if errors.As(err, &httpErr) {
		attrs = append(attrs, "status_code", httpErr.StatusCode, "body", httpErr.Body)
	}
	s.logger.Error("turn failed", attrs...)
}
