package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// StatusError reports a non-2xx response after retries are exhausted.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("status %d", e.Code) }

type Client struct {
	HTTP    *http.Client
	Headers map[string]string
}

// DoJSON executes the request and decodes the JSON body into out. Transport
// errors and 5xx responses are retried with exponential backoff; 4xx stops
// immediately. On 4xx the body is still decoded into out when possible, so
// callers can surface provider error envelopes.
func (c *Client) DoJSON(ctx context.Context, req *http.Request, out any) error {
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	if c.HTTP == nil {
		c.HTTP = http.DefaultClient
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 3 * time.Second

	op := func() error {
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return &StatusError{Code: resp.StatusCode}
		}
		if resp.StatusCode >= 300 {
			_ = json.NewDecoder(resp.Body).Decode(out)
			return backoff.Permanent(&StatusError{Code: resp.StatusCode})
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(exp, ctx))
}
