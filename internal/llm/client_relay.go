package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type llmClientRelay struct {
	client      httpDoer
	endpoint    string
	apiKey      string
	model       string
	temperature *float64
	logger      *slog.Logger
}

type relayRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type relayResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

func newRelayClient(endpoint *url.URL, opts LLMClientOptions) *llmClientRelay {
	return &llmClientRelay{
		client:      &http.Client{Timeout: opts.Timeout},
		endpoint:    endpoint.String(),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		logger:      opts.logger().With("provider", LLMProviderRelay),
	}
}

func (ai *llmClientRelay) Send(ctx context.Context, messages []Message) (*LLMSendResponse, error) {
	payload, err := json.Marshal(relayRequest{
		Messages:    messages,
		Model:       ai.model,
		Temperature: ai.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ai.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ai.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+ai.apiKey)
	}

	ai.logger.Debug("sending relay request",
		"url", ai.endpoint,
		"api_key", maskKey(ai.apiKey),
		"messages_count", len(messages),
		"estimated_tokens", RoughEstimateMessagesTokens(messages),
		"request_size", len(payload))

	resp, err := ai.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	ai.logger.Debug("received relay response",
		"status_code", resp.StatusCode,
		"response_size", len(body),
		"body", string(body))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var parsed relayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &MalformedResponseError{Reason: err.Error(), Body: truncate(string(body), 200)}
	}
	if len(parsed.Choices) == 0 {
		return nil, &MalformedResponseError{Reason: "no choices in response", Body: truncate(string(body), 200)}
	}
	content := parsed.Choices[0].Message.Content
	if content == nil {
		return nil, &MalformedResponseError{Reason: "choices[0].message.content is missing", Body: truncate(string(body), 200)}
	}

	return &LLMSendResponse{
		Content: *content,
		Usage: LLMTokenUsage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
		},
	}, nil
}
