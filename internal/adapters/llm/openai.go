// internal/adapters/llm/openai.go
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Config is shared by every provider client.
type Config struct {
	BaseURL      string // OpenAI-compatible providers only
	APIKey       string
	Model        string
	SystemPrompt string
	Temperature  *float64 // nil leaves the provider default; 0 is sent as 0
	MaxTokens    int
	Timeout      time.Duration
	HTTPClient   *http.Client // optional; tests inject one
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 60 * time.Second
	}
	return c.Timeout
}

// OpenAI talks to any chat-completions endpoint that speaks the OpenAI wire format
// (DeepInfra, DeepSeek, OpenAI itself). It sends exactly one request per call.
type OpenAI struct {
	client openai.Client
	cfg    Config
}

func NewOpenAI(cfg Config) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &OpenAI{client: openai.NewClient(opts...), cfg: cfg}
}

func (o *OpenAI) Provider() string { return "openai" }

// Available reports whether a credential is configured.
func (o *OpenAI) Available() bool { return o.cfg.APIKey != "" }

func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	if !o.Available() {
		return "", unavailable()
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.timeout())
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(o.cfg.SystemPrompt),
			openai.UserMessage(prompt),
		},
	}
	if o.cfg.Temperature != nil {
		params.Temperature = openai.Float(*o.cfg.Temperature)
	}
	if o.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.cfg.MaxTokens))
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(ctx, err, openAIStatus(err))
	}
	if len(completion.Choices) == 0 {
		return "", classify(ctx, errEmptyCompletion, http.StatusBadGateway)
	}
	return completion.Choices[0].Message.Content, nil
}

func openAIStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
