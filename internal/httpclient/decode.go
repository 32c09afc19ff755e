// ABOUTME: Typed helpers that send a request and decode its payload, enveloped or bare
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSON sends req and decodes the envelope data member into T.
func JSON[T any](ctx context.Context, c *Client, req *Request) (T, error) {
	var zero T
	resp, err := c.Do(ctx, req)
	if err != nil {
		return zero, err
	}
	out, err := Unwrap[T](resp.Body)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	return out, nil
}

// Flexible sends req and accepts either an envelope or the bare payload.
func Flexible[T any](ctx context.Context, c *Client, req *Request) (T, error) {
	var zero T
	resp, err := c.Do(ctx, req)
	if err != nil {
		return zero, err
	}
	out, err := UnwrapFlexible[T](resp.Body)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	return out, nil
}

// Bare sends req to an endpoint without the envelope and decodes the whole body into T.
func Bare[T any](ctx context.Context, c *Client, req *Request) (T, error) {
	var out T
	req.Bare = true
	resp, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("%s %s: decoding response: %w", req.Method, req.Path, err)
	}
	return out, nil
}

// Exec sends req and discards any payload.
func Exec(ctx context.Context, c *Client, req *Request) error {
	_, err := c.Do(ctx, req)
	return err
}
