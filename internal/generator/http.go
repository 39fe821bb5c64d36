package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"answer-pipeline/internal/common/config"
	"answer-pipeline/internal/common/logger"
)

// HTTPGenerator calls the external GenAI composition endpoint. Retries with
// exponential backoff up to MaxRetries; context expiry maps to
// ErrGeneratorTimeout, everything else to ErrGeneratorFailed.
type HTTPGenerator struct {
	config *config.GeneratorConfig
	client *http.Client
	logger logger.Logger
}

func NewHTTP(cfg *config.GeneratorConfig, log logger.Logger) *HTTPGenerator {
	return &HTTPGenerator{
		config: cfg,
		client: &http.Client{},
		logger: log.With(map[string]interface{}{
			"component": "generator",
		}),
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, genReq *Request) (*Draft, error) {
	requestBody := map[string]interface{}{
		"request":     genReq,
		"max_tokens":  g.config.MaxTokens,
		"temperature": g.config.Temperature,
	}
	body, _ := json.Marshal(requestBody)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.config.Timeout)*time.Millisecond)
	defer cancel()

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrGeneratorTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", g.config.BaseURL+"/api/ai/compose", bytes.NewBuffer(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGeneratorFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, lastErr = g.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, ErrGeneratorTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrGeneratorTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrGeneratorFailed, lastErr)
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrGeneratorFailed)
	}
	defer resp.Body.Close()

	var draft Draft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrGeneratorFailed, err)
	}

	g.logger.Debug("draft received", map[string]interface{}{
		"capsuleWords": len(bytes.Fields([]byte(draft.AnswerCapsule))),
		"steps":        len(draft.Steps),
		"repairNotes":  len(genReq.RepairNotes),
	})

	return &draft, nil
}
