package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fraudlens/internal/config"
	"fraudlens/internal/domain/models"
	"fraudlens/pkg/logger"
)

// ErrUnavailable wraps every external classifier failure. Callers treat
// it as "no external opinion" and fall back to the local score.
var ErrUnavailable = errors.New("external classifier unavailable")

// Classifier calls an external fraud classification API. Every failure
// mode (timeout, non-2xx, malformed payload) collapses into
// ErrUnavailable; the classifier never returns a partial result.
type Classifier struct {
	httpClient *http.Client
	config     config.ExternalConfig
	logger     *logger.Logger
}

// NewClassifier creates a classifier client
func NewClassifier(cfg config.ExternalConfig, log *logger.Logger) *Classifier {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Classifier{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.WithComponent("external-classifier"),
	}
}

type classifyRequest struct {
	Text    string `json:"text"`
	Channel string `json:"channel,omitempty"`
	Locale  string `json:"locale,omitempty"`
	Model   string `json:"model,omitempty"`
}

type classifyResponse struct {
	RiskScore  float64  `json:"risk_score"`
	Confidence float64  `json:"confidence"`
	Signals    []string `json:"signals"`
}

// Classify sends text to the external API and returns its assessment
func (c *Classifier) Classify(ctx context.Context, req *models.ScoreRequest) (*models.ExternalResult, error) {
	payload, err := json.Marshal(classifyRequest{
		Text:    req.Text,
		Channel: req.Channel,
		Locale:  req.Locale,
		Model:   c.config.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API error %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed classifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	if parsed.RiskScore < 0 || parsed.RiskScore > 100 {
		return nil, fmt.Errorf("%w: risk score %.1f out of range", ErrUnavailable, parsed.RiskScore)
	}

	return &models.ExternalResult{
		RiskScore:  parsed.RiskScore,
		Confidence: parsed.Confidence,
		Signals:    parsed.Signals,
	}, nil
}
