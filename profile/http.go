package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultMePath = "/users/me"

// TokenSource yields the current access token, or false when no session is
// active. The provider never caches it; every request reads the live value.
type TokenSource func() (string, bool)

// HTTPConfig configures HTTPProvider.
//
// HTTPConfig instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type HTTPConfig struct {
	BaseURL string
	Path    string // defaults to /users/me
	Timeout time.Duration
	Headers map[string]string // static headers, e.g. app version
}

// HTTPProvider fetches the current user record over HTTPS.
type HTTPProvider struct {
	client *resty.Client
	path   string
	tokens TokenSource
}

// NewHTTPProvider creates an HTTPProvider. tokens supplies the bearer
// credential per request.
func NewHTTPProvider(cfg HTTPConfig, tokens TokenSource) (*HTTPProvider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("profile: base url required")
	}
	if tokens == nil {
		return nil, errors.New("profile: token source required")
	}

	path := cfg.Path
	if path == "" {
		path = defaultMePath
	}

	client := resty.New()
	client.BaseURL = cfg.BaseURL
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	for k, v := range cfg.Headers {
		client.SetHeader(k, v)
	}

	return &HTTPProvider{
		client: client,
		path:   path,
		tokens: tokens,
	}, nil
}

// FetchCurrent describes the fetchcurrent operation and its observable behavior.
//
// FetchCurrent may return an error when input validation, dependency calls, or
// payload validation fail. A 401 or 403 maps to ErrUnauthorized so callers can
// route the rejection into the logout path.
func (p *HTTPProvider) FetchCurrent(ctx context.Context) (*Record, error) {
	token, ok := p.tokens()
	if !ok {
		return nil, ErrUnauthorized
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", token)).
		Get(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		// fall through to decode
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	// Unknown fields are tolerated (the record is opaque beyond the flags);
	// structurally broken JSON is rejected outright.
	var rec Record
	if err := json.Unmarshal(resp.Body(), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := ValidateRecord(&rec); err != nil {
		return nil, err
	}

	return &rec, nil
}
