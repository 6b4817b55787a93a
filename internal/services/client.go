// internal/services/client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"formalization-guide/internal/common/config"
	"formalization-guide/internal/common/errors"
	"formalization-guide/internal/common/http"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/common/observability"

	"github.com/google/uuid"
)

// restClient is the shared JSON-over-HTTP plumbing for all service clients.
type restClient struct {
	base   string
	token  string
	client *http.Client
	logger logger.Logger
	obs    *observability.Observability
}

func newRESTClient(cfg config.ServiceEndpoint, log logger.Logger, obs *observability.Observability) *restClient {
	return &restClient{
		base:   cfg.BaseURL,
		token:  cfg.Token,
		client: http.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		logger: log,
		obs:    obs,
	}
}

// doJSON issues one request and decodes the response body into out (when
// out is non-nil). Non-2xx statuses map onto the standard error taxonomy.
func (c *restClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.NewTransportError(method+" "+path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := nethttp.NewRequest(method, c.base+path, reader)
	if err != nil {
		return errors.NewTransportError(method+" "+path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.DoWithContext(ctx, req)
	if c.obs != nil {
		c.obs.RecordRemoteDuration(ctx, time.Since(start), method+" "+path)
	}
	if err != nil {
		c.logger.Warn("service request failed", map[string]interface{}{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return errors.NewTransportError(method+" "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapHTTPError(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewTransportError(method+" "+path, err)
	}
	return nil
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (c *restClient) mapHTTPError(method, path string, resp *nethttp.Response) error {
	var payload errorPayload
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Detail
	}
	if msg == "" {
		msg = string(raw)
	}

	switch {
	case resp.StatusCode == nethttp.StatusUnprocessableEntity,
		resp.StatusCode == nethttp.StatusBadRequest:
		return errors.NewValidationError(msg, fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode))
	case resp.StatusCode == nethttp.StatusConflict:
		return errors.NewValidationError(msg, fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode))
	default:
		return errors.NewTransportError(
			fmt.Sprintf("%s %s", method, path),
			fmt.Errorf("status %d: %s", resp.StatusCode, msg),
		)
	}
}
