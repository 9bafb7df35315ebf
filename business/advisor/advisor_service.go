package advisor

import (
	"context"
	"errors"
	"fmt"
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
	maxHistory       = 20
	maxMessageLength = 2000
	maxContextItems  = 12

	FallbackReply = "Al momento non riesco a rispondere. Riprova tra qualche istante oppure scrivici: il nostro team ti aiuterà con piacere."
)

const basePrompt = `Sei la consulente skincare di Alma. Rispondi sempre in italiano, con tono caldo e professionale,
in massimo 120 parole. Non fare diagnosi mediche: per problemi importanti suggerisci un dermatologo.`

var kindPrompts = map[string]string{
	domain.ChatGeneral: "Rispondi a domande generali sulla cura della pelle e sul quiz.",
	domain.ChatProduct: "Aiuta a scegliere tra i prodotti elencati nel contesto, senza inventarne altri.",
	domain.ChatResults: "Spiega la routine consigliata nel contesto: ordine di applicazione, frequenza e perché ogni prodotto è adatto.",
}

type advisorService struct {
	generator Generator
}

func NewAdvisorService(generator Generator) *advisorService {
	return &advisorService{generator: generator}
}

// Reply answers a chat message. Provider failures produce FallbackReply,
// only invalid input is an error.
func (s *advisorService) Reply(ctx context.Context, req domain.ChatRequest) (domain.ChatReply, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChatReply{}, fmt.Errorf("context error: %w", err)
	}

	system, ok := kindPrompts[req.Kind]
	if !ok {
		return domain.ChatReply{}, errors.New("unknown chat kind")
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return domain.ChatReply{}, errors.New("message is required")
	}
	if len([]rune(req.Message)) > maxMessageLength {
		return domain.ChatReply{}, errors.New("message too long")
	}

	if s.generator == nil {
		metrics.ChatFailures.WithLabelValues(req.Kind).Inc()
		return domain.ChatReply{Reply: FallbackReply, Fallback: true}, nil
	}

	text, err := s.generator.Generate(ctx, buildRequest(system, req))
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		if err == nil {
			err = errors.New("empty reply")
		}
		logger.Warn("chat fallback", err, "kind", req.Kind)
		metrics.ChatFailures.WithLabelValues(req.Kind).Inc()
		return domain.ChatReply{Reply: FallbackReply, Fallback: true}, nil
	}

	return domain.ChatReply{Reply: text}, nil
}

func buildRequest(kindPrompt string, req domain.ChatRequest) domain.GenerationRequest {
	system := basePrompt + "\n" + kindPrompt
	if c := describeContext(req); c != "" {
		system += "\n\nContesto:\n" + c
	}

	history := req.History
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	messages := make([]domain.GenerationMessage, 0, len(history)+1)
	for _, m := range history {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		messages = append(messages, domain.GenerationMessage{
			Role:  role,
			Parts: []domain.GenerationPart{{Text: m.Content}},
		})
	}
	messages = append(messages, domain.GenerationMessage{
		Role:  "user",
		Parts: []domain.GenerationPart{{Text: req.Message}},
	})

	return domain.GenerationRequest{System: system, Messages: messages}
}

func describeContext(req domain.ChatRequest) string {
	var b strings.Builder

	if p := req.Profile; p != nil {
		if p.SkinType != "" {
			fmt.Fprintf(&b, "- tipo di pelle: %s\n", p.SkinType)
		}
		if p.Age > 0 {
			fmt.Fprintf(&b, "- età: %d\n", p.Age)
		}
		if len(p.Concerns) > 0 {
			fmt.Fprintf(&b, "- problematiche: %s\n", strings.Join(p.Concerns, ", "))
		}
	}

	products := req.Products
	if len(products) > maxContextItems {
		products = products[:maxContextItems]
	}
	for _, p := range products {
		fmt.Fprintf(&b, "- prodotto: %s (%s, € %.2f)", p.Name, p.Category, p.Price)
		if p.Description != "" {
			fmt.Fprintf(&b, ": %s", p.Description)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}
