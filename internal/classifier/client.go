// Package classifier talks to the external image classification service
// that maps a medication photo to a predicted drug name. This is the only
// network boundary in the resolution path: calls carry an explicit timeout,
// are never retried here, and failures surface as ClassifierUnavailable.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/medinfo/medinfo-api/internal/model"
	"github.com/medinfo/medinfo-api/pkg/circuitbreaker"
	apperrors "github.com/medinfo/medinfo-api/pkg/errors"
	"github.com/medinfo/medinfo-api/pkg/metrics"
)

type Classifier interface {
	Predict(ctx context.Context, image []byte) (*model.Prediction, error)
}

type Config struct {
	URL     string
	Timeout time.Duration
}

type client struct {
	url     string
	timeout time.Duration
	http    *http.Client
	cb      *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewClient(cfg Config, m *metrics.Metrics, logger zerolog.Logger) Classifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &client{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "image-classifier",
			MaxFailures: 5,
			Cooldown:    15 * time.Second,
		}),
		metrics: m,
		logger:  logger.With().Str("component", "classifier").Logger(),
	}
}

// Predict submits the raw image bytes once and returns the structured
// prediction. Transport failures, timeouts and non-2xx responses all map to
// ClassifierUnavailable; retry policy belongs to the caller.
func (c *client) Predict(ctx context.Context, image []byte) (*model.Prediction, error) {
	var prediction *model.Prediction

	start := time.Now()
	err := c.cb.Execute(func() error {
		p, err := c.predict(ctx, image)
		if err != nil {
			return err
		}
		prediction = p
		return nil
	})
	c.observe(time.Since(start), err)

	if err != nil {
		c.logger.Warn().Err(err).Msg("prediction failed")
		return nil, apperrors.ClassifierUnavailable(err)
	}
	return prediction, nil
}

func (c *client) predict(ctx context.Context, image []byte) (*model.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, body)
	}

	var prediction model.Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}
	if prediction.DrugName == "" {
		return nil, fmt.Errorf("classifier response contained no drug name")
	}
	return &prediction, nil
}

func (c *client) observe(elapsed time.Duration, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.ClassifierLatency.Observe(elapsed.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.metrics.ClassifierRequests.With(prometheus.Labels{"outcome": outcome}).Inc()
}
