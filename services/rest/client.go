// Package rest is the single configured HTTP boundary to the Soma backend:
// token injection, the centralized 401 policy and error-shape normalization
// all live here so no caller handles them ad hoc.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/session"
)

// TokenStore is the slice of the session store the client needs: read the
// token, and clear the session when the backend rejects it.
type TokenStore interface {
	Token() string
	Logout()
}

type Client struct {
	baseURL string
	std     *http.Client
	upload  *http.Client
	tokens  TokenStore
	logger  core.Logger

	// onUnauthorized is the redirect-to-login analog; invoked exactly once
	// per 401 response on a non-auth route.
	onUnauthorized func()
}

// authPaths never trigger the 401 invalidation policy: a failed login is a
// credentials problem, not a session problem.
var authPaths = map[string]bool{
	"/login":    true,
	"/register": true,
}

func NewClient(conf core.ClientConfig, tokens TokenStore, logger core.Logger, onUnauthorized func()) *Client {
	return &Client{
		baseURL:        strings.TrimRight(conf.BaseURL, "/"),
		std:            &http.Client{Timeout: conf.RequestTimeout},
		upload:         &http.Client{Timeout: conf.UploadTimeout},
		tokens:         tokens,
		logger:         logger,
		onUnauthorized: onUnauthorized,
	}
}

func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, params, nil, "", out, c.std)
}

func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	body, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, body, "application/json", out, c.std)
}

func (c *Client) Put(ctx context.Context, path string, in, out interface{}) error {
	body, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, nil, body, "application/json", out, c.std)
}

func (c *Client) Patch(ctx context.Context, path string, in, out interface{}) error {
	body, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, nil, body, "application/json", out, c.std)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil, c.std)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	params url.Values,
	body io.Reader,
	contentType string,
	out interface{},
	httpClient *http.Client,
) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.tokens.Token(); session.IsTokenValid(tok) {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		// network failure: no response object, no session action
		c.logger.Error("request failed", err, map[string]interface{}{"method": method, "path": path})
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusUnauthorized && !authPaths[path] {
			c.tokens.Logout()
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return normalizeError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "decoding %s %s response", method, path)
		}
	}
	return nil
}

func jsonBody(in interface{}) (io.Reader, error) {
	if in == nil {
		return nil, nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling request body")
	}
	return bytes.NewReader(raw), nil
}

// normalizeError folds the backend's error shapes ({"message"}, {"error"},
// {"errors": {field: msg}}) into a single *core.APIError.
func normalizeError(status int, data []byte) error {
	apiErr := &core.APIError{StatusCode: status}

	var shape struct {
		Message string            `json:"message"`
		Error   string            `json:"error"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(data, &shape); err == nil {
		switch {
		case shape.Message != "":
			apiErr.Message = shape.Message
		case shape.Error != "":
			apiErr.Message = shape.Error
		}
		if len(shape.Errors) > 0 {
			apiErr.Fields = shape.Errors
		}
	}
	if apiErr.Message == "" && len(apiErr.Fields) == 0 {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
