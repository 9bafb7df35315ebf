package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/metrics"
)

// Generator contract interface
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (string, error)
}

const (
	minScore = 1
	maxScore = 10

	// problemThreshold and goodThreshold turn scores into quiz concerns.
	problemThreshold = 7
	goodThreshold    = 4

	maxImageBytes = 8 << 20

	systemPrompt = `Sei un'esperta dermocosmetica. Analizza la foto del viso e rispondi SOLO con un oggetto JSON
con queste chiavi intere da 1 a 10: "idratazione", "elasticita", "pigmentazione", "acne", "rughe", "pori", "rossori".
Per idratazione ed elasticita 10 significa ottimo; per le altre 10 significa problema molto evidente.`
	userPrompt = "Valuta la pelle in questa foto."
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

type analysisService struct {
	generator Generator
}

// NewAnalysisService accepts a nil generator; every analysis then falls back.
func NewAnalysisService(generator Generator) *analysisService {
	return &analysisService{generator: generator}
}

// Analyze scores a face photo. Only invalid input is an error: any provider
// failure returns the fallback scores flagged as such.
func (s *analysisService) Analyze(ctx context.Context, image, mimeType string) (domain.SkinAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return domain.SkinAnalysis{}, fmt.Errorf("context error: %w", err)
	}

	data, mimeType, err := parseImage(image, mimeType)
	if err != nil {
		logger.Error("Invalid skin analysis image", err)
		return domain.SkinAnalysis{}, err
	}

	scores, err := s.score(ctx, data, mimeType)
	if err != nil {
		logger.Warn("skin analysis fallback", err)
		metrics.AnalysisFallbacks.Inc()
		return newAnalysis(domain.FallbackSkinScores, true), nil
	}

	return newAnalysis(scores, false), nil
}

func (s *analysisService) score(ctx context.Context, data, mimeType string) (domain.SkinScores, error) {
	if s.generator == nil {
		return domain.SkinScores{}, errors.New("analysis provider not configured")
	}

	text, err := s.generator.Generate(ctx, domain.GenerationRequest{
		System: systemPrompt,
		JSON:   true,
		Messages: []domain.GenerationMessage{{
			Role: "user",
			Parts: []domain.GenerationPart{
				{Text: userPrompt},
				{MimeType: mimeType, Data: data},
			},
		}},
	})
	if err != nil {
		return domain.SkinScores{}, err
	}

	return parseScores(text)
}

// parseImage accepts raw base64 or a data URL.
func parseImage(image, mimeType string) (string, string, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return "", "", errors.New("image is required")
	}

	if strings.HasPrefix(image, "data:") {
		header, data, ok := strings.Cut(image, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return "", "", errors.New("invalid image data url")
		}
		if mimeType == "" {
			mimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		}
		image = data
	}

	mimeType = strings.ToLower(mimeType)
	if !allowedMimeTypes[mimeType] {
		return "", "", errors.New("unsupported image type")
	}

	raw, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return "", "", errors.New("image is not valid base64")
	}
	if len(raw) > maxImageBytes {
		return "", "", errors.New("image too large")
	}

	return image, mimeType, nil
}

var scoreKeys = []string{"idratazione", "elasticita", "pigmentazione", "acne", "rughe", "pori", "rossori"}

// parseScores reads the model answer, tolerating code fences and decimals.
// A missing axis is an error.
func parseScores(text string) (domain.SkinScores, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var raw map[string]float64
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return domain.SkinScores{}, fmt.Errorf("failed to decode scores: %w", err)
	}

	values := make(map[string]int, len(scoreKeys))
	for _, k := range scoreKeys {
		v, ok := raw[k]
		if !ok {
			return domain.SkinScores{}, fmt.Errorf("missing score %q", k)
		}
		values[k] = clamp(v)
	}

	return domain.SkinScores{
		Hydration:    values["idratazione"],
		Elasticity:   values["elasticita"],
		Pigmentation: values["pigmentazione"],
		Acne:         values["acne"],
		Wrinkles:     values["rughe"],
		Pores:        values["pori"],
		Redness:      values["rossori"],
	}, nil
}

func clamp(v float64) int {
	if math.IsNaN(v) {
		return minScore
	}
	n := int(math.Round(v))
	if n < minScore {
		return minScore
	}
	if n > maxScore {
		return maxScore
	}
	return n
}

func newAnalysis(scores domain.SkinScores, fallback bool) domain.SkinAnalysis {
	return domain.SkinAnalysis{
		Scores:            scores,
		SuggestedConcerns: SuggestedConcerns(scores),
		Fallback:          fallback,
	}
}

// SuggestedConcerns maps scores to quiz concerns in vocabulary order.
func SuggestedConcerns(s domain.SkinScores) []string {
	hit := map[string]bool{
		domain.ConcernRedness:       s.Redness >= problemThreshold,
		domain.ConcernAcne:          s.Acne >= problemThreshold,
		domain.ConcernWrinkles:      s.Wrinkles >= problemThreshold,
		domain.ConcernPigmentation:  s.Pigmentation >= problemThreshold,
		domain.ConcernEnlargedPores: s.Pores >= problemThreshold,
		domain.ConcernDehydration:   s.Hydration <= goodThreshold,
		domain.ConcernElasticity:    s.Elasticity <= goodThreshold,
	}

	out := make([]string, 0)
	for _, c := range domain.Concerns {
		if hit[c] {
			out = append(out, c)
		}
	}
	return out
}
