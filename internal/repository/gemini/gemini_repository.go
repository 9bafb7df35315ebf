package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"
)

const (
	defaultInitialBackoff = 1 * time.Second
	structuredMimeType    = "application/json"
)

type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type GeminiRepository struct {
	cfg            GeminiConfig
	client         *http.Client
	initialBackoff time.Duration
}

func NewGeminiRepository(cfg GeminiConfig) *GeminiRepository {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &GeminiRepository{
		cfg:            cfg,
		client:         &http.Client{Timeout: cfg.Timeout},
		initialBackoff: defaultInitialBackoff,
	}
}

type payload struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// errPermanent marks a failure a retry cannot fix.
var errPermanent = errors.New("permanent gemini error")

func buildPayload(req domain.GenerationRequest) payload {
	p := payload{}
	if req.System != "" {
		p.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}
	if req.JSON {
		p.GenerationConfig = &generationConfig{ResponseMimeType: structuredMimeType}
	}

	for _, m := range req.Messages {
		c := content{Role: m.Role}
		for _, mp := range m.Parts {
			if mp.Data != "" {
				c.Parts = append(c.Parts, part{InlineData: &inlineData{MimeType: mp.MimeType, Data: mp.Data}})
				continue
			}
			c.Parts = append(c.Parts, part{Text: mp.Text})
		}
		p.Contents = append(p.Contents, c)
	}

	return p
}

// Generate returns the text of the first candidate. Transport errors,
// 429 and 5xx answers are retried with exponential backoff.
func (r *GeminiRepository) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if r.cfg.APIKey == "" {
		return "", errors.New("gemini api key not configured")
	}
	if len(req.Messages) == 0 {
		return "", errors.New("empty generation request")
	}

	payloadBytes, err := json.Marshal(buildPayload(req))
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		r.cfg.BaseURL, url.PathEscape(r.cfg.Model), url.QueryEscape(r.cfg.APIKey))

	var lastErr error
	for i := 0; i < r.cfg.MaxRetries; i++ {
		if i > 0 {
			backoff := r.initialBackoff * time.Duration(math.Pow(2, float64(i-1)))
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context error: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		text, err := r.call(ctx, endpoint, payloadBytes)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if errors.Is(err, errPermanent) || ctx.Err() != nil {
			break
		}
		logger.Warn("gemini attempt failed", err, "attempt", i+1)
	}

	return "", fmt.Errorf("failed to call gemini after %d attempts: %w", r.cfg.MaxRetries, lastErr)
}

func (r *GeminiRepository) call(ctx context.Context, endpoint string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", fmt.Errorf("api returned status %s", resp.Status)
		}
		return "", fmt.Errorf("api returned status %s: %w", resp.Status, errPermanent)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %v: %w", err, errPermanent)
	}

	if len(out.Candidates) > 0 && len(out.Candidates[0].Content.Parts) > 0 {
		return out.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("no content found in gemini response: %w", errPermanent)
}
