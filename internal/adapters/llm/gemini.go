// internal/adapters/llm/gemini.go
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Gemini calls Google's Generative Language API. The SDK client is created lazily on the
// first call so a missing key never dials out.
type Gemini struct {
	cfg Config

	once   sync.Once
	client *genai.Client
	model  *genai.GenerativeModel
	err    error
}

func NewGemini(cfg Config) *Gemini {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	return &Gemini{cfg: cfg}
}

func (g *Gemini) Provider() string { return "gemini" }

func (g *Gemini) Available() bool { return g.cfg.APIKey != "" }

func (g *Gemini) init(ctx context.Context) error {
	g.once.Do(func() {
		opts := []option.ClientOption{option.WithAPIKey(g.cfg.APIKey)}
		if g.cfg.HTTPClient != nil {
			opts = append(opts, option.WithHTTPClient(g.cfg.HTTPClient))
		}
		client, err := genai.NewClient(context.WithoutCancel(ctx), opts...)
		if err != nil {
			g.err = err
			return
		}
		m := client.GenerativeModel(g.cfg.Model)
		if g.cfg.Temperature != nil {
			m.SetTemperature(float32(*g.cfg.Temperature))
		}
		if g.cfg.MaxTokens > 0 {
			m.SetMaxOutputTokens(int32(g.cfg.MaxTokens))
		}
		if g.cfg.SystemPrompt != "" {
			m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(g.cfg.SystemPrompt)}}
		}
		m.ResponseMIMEType = "application/json"
		g.client, g.model = client, m
	})
	return g.err
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	if !g.Available() {
		return "", unavailable()
	}
	if err := g.init(ctx); err != nil {
		return "", classify(ctx, err, 0)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.timeout())
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify(ctx, err, geminiStatus(err))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", classify(ctx, errEmptyCompletion, http.StatusBadGateway)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// Close releases the SDK client, if one was created.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// geminiStatus recovers an HTTP-equivalent status from REST or gRPC errors. A safety block is
// the request's fault and reads as 400.
func geminiStatus(err error) int {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return http.StatusBadRequest
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.HTTPCode(); code > 0 {
			return code
		}
	}
	if st, ok := status.FromError(err); ok {
		return httpFromGRPC(st.Code())
	}
	return 0
}

func httpFromGRPC(c codes.Code) int {
	switch c {
	case codes.OK:
		return 0
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
