package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

type LLMTokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

type LLMSendResponse struct {
	Content string
	Usage   LLMTokenUsage
}

// LLMClient sends the whole conversation and returns the assistant reply.
// Failures are reported as *HTTPError, *TransportError or *MalformedResponseError.
type LLMClient interface {
	Send(ctx context.Context, messages []Message) (*LLMSendResponse, error)
}

type LLMProvider string

const (
	LLMProviderRelay  LLMProvider = "relay"
	LLMProviderOpenAI LLMProvider = "openai"
	LLMProviderOllama LLMProvider = "ollama"
	LLMProviderGemini LLMProvider = "gemini"
)

var LLMProviders = []LLMProvider{LLMProviderRelay, LLMProviderOpenAI, LLMProviderOllama, LLMProviderGemini}

type LLMClientOptions struct {
	Model    string
	Endpoint string
	APIKey   string
	// Temperature is omitted from requests when nil.
	Temperature *float64
	// Timeout of zero means requests never time out.
	Timeout time.Duration
	Logger  *slog.Logger
}

func (o LLMClientOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func NewClient(provider LLMProvider, opts LLMClientOptions) (LLMClient, error) {
	switch provider {
	case LLMProviderRelay:
		endpoint, err := parseEndpoint(opts.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("relay endpoint: %w", err)
		}
		return newRelayClient(endpoint, opts), nil
	case LLMProviderOpenAI:
		if strings.TrimSpace(opts.APIKey) == "" {
			return nil, fmt.Errorf("openai api key is not set")
		}
		if opts.Model == "" {
			return nil, fmt.Errorf("openai model is not set")
		}
		if opts.Endpoint != "" {
			if _, err := parseEndpoint(opts.Endpoint); err != nil {
				return nil, fmt.Errorf("openai endpoint: %w", err)
			}
		}
		return newOpenAIClient(opts), nil
	case LLMProviderOllama:
		endpoint, err := parseEndpoint(opts.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("ollama endpoint: %w", err)
		}
		if opts.Model == "" {
			return nil, fmt.Errorf("ollama model is not set")
		}
		return newOllamaClient(*endpoint, opts), nil
	case LLMProviderGemini:
		if strings.TrimSpace(opts.APIKey) == "" {
			return nil, fmt.Errorf("gemini api key is not set")
		}
		if opts.Model == "" {
			return nil, fmt.Errorf("gemini model is not set")
		}
		return newGeminiClient(opts)
	default:
		return nil, fmt.Errorf("%s: invalid provider", provider)
	}
}

func parseEndpoint(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("endpoint is not set")
	}
	endpoint, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("endpoint URL is invalid: %v", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, fmt.Errorf("endpoint URL must use http or https, got %q", endpoint.Scheme)
	}
	if endpoint.Host == "" {
		return nil, fmt.Errorf("endpoint URL has no host")
	}
	return endpoint, nil
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return ""
	}
	return key[:4] + "..." + key[len(key)-4:]
}
