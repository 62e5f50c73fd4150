// Package webhook provides the CALL_WEBHOOK action handler.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeoutSeconds = 30

// Action performs an HTTP request to an external URL with optional headers,
// body and retry behavior.
type Action struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
	Timeout time.Duration
	Retry   RetryConfig
}

// RetryConfig defines retry behavior for webhook calls.
type RetryConfig struct {
	Attempts int
	Delay    int
}

// NewAction creates a webhook action from a resolved configuration.
func NewAction(config map[string]any) (*Action, error) {
	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, ErrWebhookURLMissing
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = http.MethodPost
	}

	body := ""

	switch typed := config["body"].(type) {
	case string:
		body = typed
	case map[string]any, []any:
		payload, err := json.Marshal(typed)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal webhook body: %w", err)
		}

		body = string(payload)
	}

	headers := make(map[string]string)

	if headersConfig, exists := config["headers"]; exists {
		if headersMap, ok := headersConfig.(map[string]any); ok {
			for k, v := range headersMap {
				if strVal, ok := v.(string); ok {
					headers[k] = strVal
				}
			}
		}
	}

	retry := RetryConfig{Attempts: 1, Delay: 0}

	if retryConfig, exists := config["retry"]; exists {
		retry = parseRetryConfig(retryConfig)
	}

	return &Action{
		Method:  strings.ToUpper(method),
		URL:     url,
		Headers: headers,
		Body:    body,
		Timeout: defaultTimeoutSeconds * time.Second,
		Retry:   retry,
	}, nil
}

func parseRetryConfig(retryConfig any) RetryConfig {
	retry := RetryConfig{Attempts: 1, Delay: 0}

	retryMap, ok := retryConfig.(map[string]any)
	if !ok {
		return retry
	}

	if attempts, ok := retryMap["attempts"].(float64); ok {
		retry.Attempts = int(attempts)
	}

	if delay, ok := retryMap["delay"].(float64); ok {
		retry.Delay = int(delay)
	}

	return retry
}

// Execute performs the request with retry on transport errors and 5xx
// responses. The response status, headers and parsed body become the action
// output for chaining.
func (a *Action) Execute(ctx context.Context, logger *slog.Logger) (any, error) {
	logger = logger.With("module", "webhook_action", "url", a.URL, "method", a.Method)
	logger.InfoContext(ctx, "Calling webhook")

	var (
		lastErr error
		resp    *http.Response
	)

	for attempt := 1; attempt <= a.Retry.Attempts; attempt++ {
		if attempt > 1 {
			logger.InfoContext(ctx, "Webhook retry", "attempt", attempt, "max_attempts", a.Retry.Attempts)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("webhook cancelled during retry backoff: %w", ctx.Err())
			case <-time.After(time.Duration(a.Retry.Delay) * time.Second):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, a.Timeout)

		var bodyReader io.Reader
		if a.Body != "" {
			bodyReader = strings.NewReader(a.Body)
		}

		req, err := http.NewRequestWithContext(reqCtx, a.Method, a.URL, bodyReader)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("failed to create webhook request: %w", err)

			continue
		}

		if a.Body != "" && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}

		for key, value := range a.Headers {
			req.Header.Set(key, value)
		}

		client := &http.Client{}
		resp, err = client.Do(req)

		cancel()

		if err != nil {
			lastErr = fmt.Errorf("webhook request failed: %w", err)

			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError && attempt < a.Retry.Attempts {
			if closeErr := resp.Body.Close(); closeErr != nil {
				logger.WarnContext(ctx, "Failed to close response body", "error", closeErr)
			}

			lastErr = fmt.Errorf("server error (status %d), retrying", resp.StatusCode)

			continue
		}

		break
	}

	if resp == nil {
		return nil, fmt.Errorf("all webhook attempts failed, last error: %w", lastErr)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response body: %w", err)
	}

	var body any
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		body = string(bodyBytes)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", ErrWebhookFailed, resp.StatusCode)
	}

	logger.InfoContext(ctx, "Webhook completed", "status_code", resp.StatusCode, "body_length", len(bodyBytes))

	return map[string]any{
		"status_code": resp.StatusCode,
		"body":        body,
	}, nil
}
