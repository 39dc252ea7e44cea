package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

type geminiModelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type llmClientGemini struct {
	models      geminiModelsClient
	model       string
	temperature *float64
	logger      *slog.Logger
}

func newGeminiClient(opts LLMClientOptions) (*llmClientGemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.Timeout > 0 {
		timeout := opts.Timeout
		cfg.HTTPOptions.Timeout = &timeout
	}
	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &llmClientGemini{
		models:      client.Models,
		model:       opts.Model,
		temperature: opts.Temperature,
		logger:      opts.logger().With("provider", LLMProviderGemini),
	}, nil
}

func (ai *llmClientGemini) Send(ctx context.Context, messages []Message) (*LLMSendResponse, error) {
	contents, config := ai.toGeminiRequest(messages)

	ai.logger.Debug("sending gemini request",
		"model", ai.model,
		"messages_count", len(messages),
		"estimated_tokens", RoughEstimateMessagesTokens(messages))

	resp, err := ai.models.GenerateContent(ctx, ai.model, contents, config)
	if err != nil {
		return nil, classifyGeminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &MalformedResponseError{Reason: "no candidates in response"}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}

	res := &LLMSendResponse{Content: text.String()}
	if resp.UsageMetadata != nil {
		res.Usage = LLMTokenUsage{
			InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return res, nil
}

func (ai *llmClientGemini) toGeminiRequest(messages []Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(messages))
	var systemParts []string
	for _, msg := range messages {
		switch msg.Role {
		case System:
			systemParts = append(systemParts, msg.Content)
		case Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{}
	if len(systemParts) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(systemParts, "\n\n"), genai.RoleUser)
	}
	if ai.temperature != nil {
		config.Temperature = genai.Ptr(float32(*ai.temperature))
	}
	return contents, config
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &HTTPError{StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &HTTPError{StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return &TransportError{Err: err}
}
