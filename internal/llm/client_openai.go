package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openaiChatClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type llmClientOpenAi struct {
	client      openaiChatClient
	model       string
	temperature *float64
	logger      *slog.Logger
}

func newOpenAIClient(opts LLMClientOptions) *llmClientOpenAi {
	requestOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.Endpoint != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.Endpoint))
	}
	if opts.Timeout > 0 {
		requestOpts = append(requestOpts, option.WithRequestTimeout(opts.Timeout))
	}
	client := openai.NewClient(requestOpts...)

	return &llmClientOpenAi{
		client:      &client.Chat.Completions,
		model:       opts.Model,
		temperature: opts.Temperature,
		logger:      opts.logger().With("provider", LLMProviderOpenAI),
	}
}

func (ai *llmClientOpenAi) toOpenAiMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	var openAiMessages []openai.ChatCompletionMessageParamUnion
	for _, msg := range messages {
		switch msg.Role {
		case User:
			openAiMessages = append(openAiMessages, openai.UserMessage(msg.Content))
		case Assistant:
			openAiMessages = append(openAiMessages, openai.AssistantMessage(msg.Content))
		case System:
			openAiMessages = append(openAiMessages, openai.SystemMessage(msg.Content))
		default:
			openAiMessages = append(openAiMessages, openai.UserMessage(msg.Content))
		}
	}
	return openAiMessages
}

func (ai *llmClientOpenAi) params(messages []Message) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    ai.model,
		Messages: ai.toOpenAiMessages(messages),
		N:        openai.Int(1),
	}
	if ai.temperature != nil {
		params.Temperature = openai.Float(*ai.temperature)
	}
	return params
}

func (ai *llmClientOpenAi) Send(ctx context.Context, messages []Message) (*LLMSendResponse, error) {
	ai.logger.Debug("sending openai request",
		"model", ai.model,
		"messages_count", len(messages),
		"estimated_tokens", RoughEstimateMessagesTokens(messages))

	res, err := ai.client.New(ctx, ai.params(messages))
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(res.Choices) == 0 {
		return nil, &MalformedResponseError{Reason: "no choices in response", Body: truncate(res.RawJSON(), 200)}
	}

	return &LLMSendResponse{
		Content: res.Choices[0].Message.Content,
		Usage: LLMTokenUsage{
			InputTokens:  res.Usage.PromptTokens,
			OutputTokens: res.Usage.CompletionTokens,
		},
	}, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &HTTPError{StatusCode: apiErr.StatusCode, Body: truncate(apiErr.RawJSON(), 200)}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &MalformedResponseError{Reason: err.Error()}
	}
	return &TransportError{Err: err}
}
