package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// CallJSON performs one JSON round trip against an external source and maps
// every expected failure onto the error taxonomy. auth, when non-nil, stamps
// credentials onto the outgoing request.
func CallJSON(
	ctx context.Context,
	doer Doer,
	id domain.ConnectorID,
	method, url string,
	auth func(*http.Request) error,
	body, out any,
) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != nil {
		if err := auth(req); err != nil {
			return NewError(ErrorAuthFailure, id, "sign request", err)
		}
	}

	resp, err := doer.Do(req)
	if err != nil {
		return WrapCallError(id, err)
	}
	defer resp.Body.Close()

	if err := categorizeStatus(id, resp.StatusCode); err != nil {
		// Drain so keep-alive connections can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewError(ErrorInvalidResponse, id, "decode response body", err)
	}
	return nil
}

func categorizeStatus(id domain.ConnectorID, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewError(ErrorAuthFailure, id, fmt.Sprintf("source returned %d", status), nil)
	case status == http.StatusTooManyRequests:
		return NewError(ErrorRateLimited, id, "source throttled the request", nil)
	case status >= 500:
		return NewError(ErrorUnavailable, id, fmt.Sprintf("source returned %d", status), nil)
	default:
		return NewError(ErrorInvalidResponse, id, fmt.Sprintf("unexpected status %d", status), nil)
	}
}
