package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

type ollamaChatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

type llmClientOllama struct {
	client      ollamaChatClient
	model       string
	temperature *float64
	logger      *slog.Logger
}

func newOllamaClient(localEndpoint url.URL, opts LLMClientOptions) *llmClientOllama {
	return &llmClientOllama{
		client:      api.NewClient(&localEndpoint, &http.Client{Timeout: opts.Timeout}),
		model:       opts.Model,
		temperature: opts.Temperature,
		logger:      opts.logger().With("provider", LLMProviderOllama),
	}
}

func (ai *llmClientOllama) Send(ctx context.Context, messages []Message) (*LLMSendResponse, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    ai.model,
		Messages: ai.toOllamaMessages(messages),
		Stream:   &stream,
	}
	if ai.temperature != nil {
		req.Options = map[string]any{"temperature": *ai.temperature}
	}

	ai.logger.Debug("sending ollama request",
		"model", ai.model,
		"messages_count", len(messages),
		"estimated_tokens", RoughEstimateMessagesTokens(messages))

	var reply *api.ChatResponse
	err := ai.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply = &resp
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return nil, &HTTPError{StatusCode: statusErr.StatusCode, Body: statusErr.ErrorMessage}
		}
		return nil, &TransportError{Err: err}
	}
	if reply == nil {
		return nil, &MalformedResponseError{Reason: "no chat response received"}
	}

	return &LLMSendResponse{
		Content: reply.Message.Content,
		Usage: LLMTokenUsage{
			InputTokens:  int64(reply.PromptEvalCount),
			OutputTokens: int64(reply.EvalCount),
		},
	}, nil
}

func (ai *llmClientOllama) toOllamaMessages(messages []Message) []api.Message {
	var ollamaMessages []api.Message
	for _, msg := range messages {
		ollamaMessages = append(ollamaMessages, api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return ollamaMessages
}
