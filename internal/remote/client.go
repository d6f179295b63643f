// Package remote holds the HTTP clients for gymform's remote collaborators:
// the Supabase profile store and the plan-generation webhooks.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a call when the config leaves it unset.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response ends up in an error.
const maxErrorBody = 512

// poster performs JSON POSTs with deadline handling, error classification and
// observer reporting shared by every client in this package.
type poster struct {
	http     *http.Client
	observer Observer
	timeout  time.Duration
}

func newPoster(httpClient *http.Client, observer Observer, timeout time.Duration) poster {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		}
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return poster{http: httpClient, observer: observer, timeout: timeout}
}

// postJSON sends body to target and returns the response body of a 2xx reply.
func (p poster) postJSON(ctx context.Context, call, target string, headers map[string]string, body any) ([]byte, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	status, respBody, err := p.do(ctx, target, headers, body)
	if err != nil {
		err = classify(ctx, err)
	}

	p.observer.OnCallComplete(CallEvent{
		Call:       call,
		Target:     redact(target),
		LatencyMs:  time.Since(start).Milliseconds(),
		StatusCode: status,
		Success:    err == nil,
		ErrorCode:  ErrorCode(err),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", call, err)
	}
	return respBody, nil
}

func (p poster) do(ctx context.Context, target string, headers map[string]string, body any) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(respBody) > maxErrorBody {
			respBody = respBody[:maxErrorBody]
		}
		return resp.StatusCode, nil, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(respBody))
	}
	return resp.StatusCode, respBody, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, ErrRejected) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// redact drops the query string, which may carry tokens, from logged URLs.
func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "invalid-url"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
