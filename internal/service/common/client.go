//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	api "github.com/oshokin/circuit-breaker/internal/api/http/breaker"
	"github.com/oshokin/circuit-breaker/internal/config"
	domain "github.com/oshokin/circuit-breaker/internal/domain/breaker"
)

// Client wraps the breaker control API with convenience helpers that map
// wire failures back to domain errors.
type Client struct {
	// baseURL is the root of the control API, e.g. http://host:8080.
	baseURL string
	// httpClient performs the requests.
	httpClient *http.Client
	// callTimeout is the default timeout for individual API calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errActorRequired is returned when an actor is required but not provided.
	errActorRequired = errors.New("actor must be provided")
)

// Dial creates a client for the breaker server at the given host:port
// address. Note: this talks plain HTTP; deploy on a trusted network or
// terminate TLS in a proxy until native TLS is added.
func Dial(address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		baseURL:     "http://" + address,
		httpClient:  &http.Client{},
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Pause trips the remote breaker. A nil duration requests an indefinite
// pause. The returned response reports either the notification or the
// zero-duration no-op.
func (c *Client) Pause(ctx context.Context, actor *domain.Actor, duration *uint64) (*api.TransitionResponse, error) {
	if actor == nil {
		return nil, errActorRequired
	}

	request := &api.PauseRequest{
		Actor:           toActorPayload(actor),
		DurationSeconds: duration,
	}

	var response api.TransitionResponse
	if err := c.post(ctx, "/v1/pause", request, &response); err != nil {
		return nil, fmt.Errorf("pause: %w", err)
	}

	return &response, nil
}

// Unpause lifts the remote pause, via the duration-gated path when ifElapsed
// is set.
func (c *Client) Unpause(ctx context.Context, actor *domain.Actor, ifElapsed bool) (*api.TransitionResponse, error) {
	if actor == nil {
		return nil, errActorRequired
	}

	request := &api.UnpauseRequest{
		Actor:     toActorPayload(actor),
		IfElapsed: ifElapsed,
	}

	var response api.TransitionResponse
	if err := c.post(ctx, "/v1/unpause", request, &response); err != nil {
		return nil, fmt.Errorf("unpause: %w", err)
	}

	return &response, nil
}

// Status retrieves the current breaker status.
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.baseURL+"/v1/status", nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}

	var response api.StatusResponse
	if err := c.do(req, &response); err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	return &response, nil
}

// post sends a JSON request and decodes the JSON response.
func (c *Client) post(ctx context.Context, path string, payload, response any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, response)
}

// do performs the request, mapping error payloads back to domain errors.
func (c *Client) do(req *http.Request, response any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		var failure api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}

		return api.ErrorFromKind(failure.Kind, failure.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// callContext returns a context with the client's call timeout if
// configured, otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// toActorPayload converts the domain actor to its wire form.
func toActorPayload(actor *domain.Actor) *api.ActorPayload {
	return &api.ActorPayload{
		Hostname: actor.Hostname,
		Username: actor.Username,
	}
}
