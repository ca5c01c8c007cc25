package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HFClient calls the Hugging Face feature-extraction pipeline for a
// sentence-embedding model.
type HFClient struct {
	url        string
	token      string
	model      string
	dimensions int
	client     *http.Client
}

// Config configures the Hugging Face embeddings client.
type Config struct {
	BaseURL    string
	Model      string
	APIToken   string
	Dimensions int
	Timeout    time.Duration
}

// NewHFClient creates a client for cfg.Model.
func NewHFClient(cfg Config) (*HFClient, error) {
	if cfg.Model == "" {
		return nil, errors.New("embedding model is not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://router.huggingface.co/hf-inference/models"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &HFClient{
		url:        fmt.Sprintf("%s/%s/pipeline/feature-extraction", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model),
		token:      cfg.APIToken,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		client:     &http.Client{Timeout: t},
	}, nil
}

// Dimensions returns the configured vector length.
func (c *HFClient) Dimensions() int { return c.dimensions }

// Embed returns the sentence embedding for text.
func (c *HFClient) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]any{
		"inputs":  text,
		"options": map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding model %s returned %s: %s", c.model, resp.Status, truncate(payload, 200))
	}

	return decodeVector(payload)
}

// decodeVector accepts either a flat vector or a single-row matrix.
func decodeVector(payload []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(payload, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	var nested [][]float32
	if err := json.Unmarshal(payload, &nested); err == nil && len(nested) == 1 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	return nil, fmt.Errorf("malformed embedding response: %s", truncate(payload, 200))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
