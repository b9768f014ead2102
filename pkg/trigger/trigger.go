package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/lingora/lingora-api/pkg/circuitbreaker"
	"github.com/lingora/lingora-api/pkg/httpclient"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	breakersMu sync.Mutex
	breakers   = make(map[string]*gobreaker.CircuitBreaker)
)

// breakerFor returns the shared circuit breaker for a trigger URL, so a dead
// notification endpoint stops being hammered across all goroutines.
func breakerFor(triggerURL string) *gobreaker.CircuitBreaker {
	breakersMu.Lock()
	defer breakersMu.Unlock()

	cb, ok := breakers[triggerURL]
	if !ok {
		cb = circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("trigger:" + triggerURL))
		breakers[triggerURL] = cb
	}
	return cb
}

// CallAsync calls a notification trigger URL asynchronously with a record ID
// appended. Triggers fan out to the external notification/messaging pipeline
// (booking confirmations, availability change emails). Failures are logged but
// never block the originating operation.
func CallAsync(triggerURL, recordID string, httpClient httpclient.Client) {
	if triggerURL == "" {
		// No trigger URL configured, skip silently
		return
	}

	targetURL := fmt.Sprintf("%s%s", triggerURL, recordID)

	go func() {
		logger.Info("Calling trigger URL",
			zap.String("url", targetURL),
			zap.String("record_id", recordID))

		err := deliver(triggerURL, "trigger_call", func() (*http.Response, error) {
			return httpClient.Get(targetURL)
		})
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", targetURL),
				zap.String("record_id", recordID))
			return
		}

		logger.Info("Trigger URL called successfully",
			zap.String("url", targetURL),
			zap.String("record_id", recordID))
	}()
}

// CallAsyncWithPayload posts a JSON payload to a trigger URL asynchronously.
// Used for triggers that need structured data (login emails, booking
// notifications) instead of a bare record ID.
func CallAsyncWithPayload(triggerURL string, payload any, httpClient httpclient.Client) {
	if triggerURL == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal trigger payload",
			zap.Error(err),
			zap.String("url", triggerURL))
		return
	}

	go func() {
		err := deliver(triggerURL, "trigger_call_payload", func() (*http.Response, error) {
			return httpClient.Post(triggerURL, "application/json", bytes.NewReader(body))
		})
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", triggerURL))
			return
		}

		logger.Info("Trigger URL called successfully",
			zap.String("url", triggerURL))
	}()
}

// deliver runs one webhook delivery through the URL's circuit breaker with
// retries. Server errors are retried; client errors are reported immediately.
func deliver(triggerURL, operation string, send func() (*http.Response, error)) error {
	cb := breakerFor(triggerURL)

	cfg := retry.DefaultConfig()
	cfg.RetryableErrors = func(err error) bool {
		return err != gobreaker.ErrOpenState
	}

	return retry.Do(context.Background(), cfg, operation, func() error {
		resp, err := circuitbreaker.Execute(cb, send)
		if err != nil {
			return circuitbreaker.FormatError(cb.Name(), err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("trigger returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusMultipleChoices {
			logger.Warn("Trigger URL returned non-success status",
				zap.String("url", triggerURL),
				zap.Int("status_code", resp.StatusCode))
		}
		return nil
	})
}
