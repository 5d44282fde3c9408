// internal/adapters/llm/classify.go
package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"wanderplan/internal/domain"
)

var (
	errNoCredential    = errors.New("no API key configured")
	errEmptyCompletion = errors.New("completion carried no text")
)

// classify wraps a provider error into a *domain.ModelError. status is the HTTP status the
// provider reported, or 0 when no response was received.
func classify(ctx context.Context, err error, status int) error {
	if err == nil {
		return nil
	}
	if isTimeout(ctx, err) {
		return &domain.ModelError{Kind: domain.FailureTimeout, Status: status, Err: err}
	}
	if status > 0 {
		return &domain.ModelError{Kind: kindForStatus(status), Status: status, Err: err}
	}
	return &domain.ModelError{Kind: domain.FailureNetworkError, Err: err}
}

// kindForStatus maps a non-2xx status: 429 is rate limiting, 5xx is the server, the rest is ours.
func kindForStatus(code int) domain.FailureKind {
	switch {
	case code == http.StatusTooManyRequests:
		return domain.FailureRateLimited
	case code >= 500:
		return domain.FailureServerError
	default:
		return domain.FailureClientError
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func unavailable() error {
	return &domain.ModelError{Kind: domain.FailureUnavailable, Err: errNoCredential}
}
