package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

const (
	retryMaxAttempts = 3
	retryBaseDelay   = 200 * time.Millisecond
	retryMaxDelay    = 5 * time.Second
	retryBodyLimit   = 8 << 10
)

// statusError is returned when the upstream answers with a retryable status.
// The body is drained up front so the connection can be reused between attempts.
type statusError struct {
	Status string
	Code   int
	Body   string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

// doWithRetry issues the request built by build through a failsafe retry policy
// with exponential backoff and jitter. Transport errors and retryable statuses
// (5xx, 429) are retried; the request is rebuilt for each attempt so the body
// reader is fresh. Non-retryable statuses are returned to the caller unread.
func doWithRetry(ctx context.Context, client *http.Client, build func() (*http.Request, error)) (*http.Response, error) {
	policy := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(retryBaseDelay, retryMaxDelay).
		WithMaxRetries(retryMaxAttempts).
		WithJitterFactor(0.1).
		HandleIf(func(_ *http.Response, err error) bool {
			return err != nil && ctx.Err() == nil
		}).
		Build()

	return failsafe.With(policy).WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := build()
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if retryableStatus(resp.StatusCode) {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, retryBodyLimit))
			resp.Body.Close()
			return nil, &statusError{
				Status: resp.Status,
				Code:   resp.StatusCode,
				Body:   strings.TrimSpace(string(body)),
			}
		}
		return resp, nil
	})
}
