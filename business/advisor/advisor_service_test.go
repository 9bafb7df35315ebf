package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
)

type fakeGenerator struct {
	text string
	err  error
	req  domain.GenerationRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req domain.GenerationRequest) (string, error) {
	f.req = req
	return f.text, f.err
}

func TestReply(t *testing.T) {
	gen := &fakeGenerator{text: "  Applica il siero dopo il tonico.  "}
	svc := NewAdvisorService(gen)

	got, err := svc.Reply(context.Background(), domain.ChatRequest{
		Kind:    domain.ChatResults,
		Message: "In che ordine li uso?",
		History: []domain.ChatMessage{
			{Role: "user", Content: "Ciao"},
			{Role: "assistant", Content: "Ciao! Come posso aiutarti?"},
		},
		Profile:  &domain.UserProfile{SkinType: domain.SkinOily, Age: 31, Concerns: []string{domain.ConcernAcne}},
		Products: []domain.Product{{Name: "Siero Purificante", Category: domain.CategorySerum, Price: 29}},
	})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if got.Fallback || got.Reply != "Applica il siero dopo il tonico." {
		t.Errorf("reply = %+v", got)
	}

	if len(gen.req.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(gen.req.Messages))
	}
	if gen.req.Messages[1].Role != "model" || gen.req.Messages[2].Role != "user" {
		t.Errorf("roles = %s, %s", gen.req.Messages[1].Role, gen.req.Messages[2].Role)
	}
	for _, want := range []string{"tipo di pelle: grassa", "età: 31", "Siero Purificante"} {
		if !strings.Contains(gen.req.System, want) {
			t.Errorf("system prompt misses %q", want)
		}
	}
}

func TestReplyFallback(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{name: "no provider", gen: nil},
		{name: "provider error", gen: &fakeGenerator{err: errors.New("quota")}},
		{name: "empty answer", gen: &fakeGenerator{text: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAdvisorService(tt.gen).Reply(context.Background(), domain.ChatRequest{Kind: domain.ChatGeneral, Message: "ciao"})
			if err != nil {
				t.Fatalf("Reply() error = %v", err)
			}
			if !got.Fallback || got.Reply != FallbackReply {
				t.Errorf("reply = %+v, want fallback", got)
			}
		})
	}
}

func TestReplyInvalid(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.ChatRequest
		wantErr string
	}{
		{name: "unknown kind", req: domain.ChatRequest{Kind: "sales", Message: "ciao"}, wantErr: "unknown chat kind"},
		{name: "blank message", req: domain.ChatRequest{Kind: domain.ChatProduct, Message: "  "}, wantErr: "message is required"},
		{name: "long message", req: domain.ChatRequest{Kind: domain.ChatProduct, Message: strings.Repeat("a", maxMessageLength+1)}, wantErr: "message too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdvisorService(&fakeGenerator{text: "ok"}).Reply(context.Background(), tt.req)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestHistoryIsTrimmed(t *testing.T) {
	history := make([]domain.ChatMessage, maxHistory+5)
	for i := range history {
		history[i] = domain.ChatMessage{Role: "user", Content: "x"}
	}

	req := buildRequest("p", domain.ChatRequest{Message: "ultima", History: history})
	if len(req.Messages) != maxHistory+1 {
		t.Errorf("messages = %d, want %d", len(req.Messages), maxHistory+1)
	}
}
