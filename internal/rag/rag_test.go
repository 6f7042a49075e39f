package rag

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/llm"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/logging"
)

type fakeRetriever struct {
	docs []Document
	err  error

	gotQuery string
	gotK     int
}

func (f *fakeRetriever) TopK(_ context.Context, query string, k int) ([]Document, error) {
	f.gotQuery = query
	f.gotK = k
	return f.docs, f.err
}

type fakeStream struct {
	chunks []llm.Chunk
	pos    int
}

func (s *fakeStream) Recv() (llm.Chunk, error) {
	if s.pos >= len(s.chunks) {
		return llm.Chunk{}, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, nil
}

func (s *fakeStream) Close() error { return nil }

type fakeProvider struct {
	reply      string
	err        error
	gotPrompt  string
	gotTools   []llm.Tool
	callsCount int
}

func (p *fakeProvider) Complete(_ context.Context, messages []llm.Message, tools []llm.Tool) (llm.Stream, error) {
	p.callsCount++
	p.gotTools = tools
	if len(messages) > 0 {
		p.gotPrompt = messages[len(messages)-1].Content
	}
	if p.err != nil {
		return nil, p.err
	}
	// Split the reply so the test exercises chunk concatenation.
	mid := len(p.reply) / 2
	return &fakeStream{chunks: []llm.Chunk{
		{Content: p.reply[:mid]},
		{Content: p.reply[mid:]},
	}}, nil
}

func testAnswerer(r Retriever, p llm.Provider) *Answerer {
	return NewAnswerer(r, p, 3, logging.NewLogger())
}

func TestAnswerGroundedInContext(t *testing.T) {
	retriever := &fakeRetriever{docs: []Document{
		{Content: "Returns are accepted within 7 days of delivery.", Source: "returns_policy.md", Score: 0.91},
		{Content: "Shipping takes 3-5 business days.", Source: "shipping_policy.md", Score: 0.82},
	}}
	provider := &fakeProvider{reply: "Returns are accepted within 7 days [Doc 1]."}

	ans, err := testAnswerer(retriever, provider).Answer(context.Background(), "what is the return window?")
	if err != nil {
		t.Fatal(err)
	}
	if ans.Text != "Returns are accepted within 7 days [Doc 1]." {
		t.Fatalf("unexpected answer %q", ans.Text)
	}
	if retriever.gotK != 3 {
		t.Fatalf("expected top-3 retrieval, got k=%d", retriever.gotK)
	}
	if len(provider.gotTools) != 0 {
		t.Fatal("grounded answering must not offer tools")
	}
	if len(ans.Sources) != 2 || ans.Sources[0].ID != 1 || ans.Sources[0].Source != "returns_policy.md" {
		t.Fatalf("unexpected sources %+v", ans.Sources)
	}
}

func TestAnswerPromptShape(t *testing.T) {
	retriever := &fakeRetriever{docs: []Document{
		{Content: "Policy text.", Source: "policy.md"},
		{Content: "More text.", Source: ""},
	}}
	provider := &fakeProvider{reply: "ok"}

	if _, err := testAnswerer(retriever, provider).Answer(context.Background(), "question?"); err != nil {
		t.Fatal(err)
	}
	prompt := provider.gotPrompt
	for _, want := range []string{
		"[Doc 1 | Source: policy.md]\nPolicy text.",
		"[Doc 2 | Source: unknown]\nMore text.",
		"based ONLY on the provided context",
		InsufficientAnswer,
		"User question:\nquestion?",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnswerDedupesRepeatedChunks(t *testing.T) {
	retriever := &fakeRetriever{docs: []Document{
		{Content: "Same chunk.", Source: "a.md"},
		{Content: "  Same chunk. ", Source: "a.md"},
		{Content: "Same chunk.", Source: "b.md"},
	}}
	provider := &fakeProvider{reply: "ok"}

	ans, err := testAnswerer(retriever, provider).Answer(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(ans.Docs) != 2 {
		t.Fatalf("expected 2 unique docs, got %d", len(ans.Docs))
	}
	if strings.Count(provider.gotPrompt, "Same chunk.") != 2 {
		t.Fatal("duplicate chunk leaked into the prompt")
	}
}

func TestAnswerRetrieverError(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("db down")}
	provider := &fakeProvider{reply: "unused"}

	_, err := testAnswerer(retriever, provider).Answer(context.Background(), "q")
	if err == nil || !strings.Contains(err.Error(), "retrieve context") {
		t.Fatalf("expected retrieval error, got %v", err)
	}
	if provider.callsCount != 0 {
		t.Fatal("model must not be called when retrieval fails")
	}
}

func TestIsInsufficient(t *testing.T) {
	if !IsInsufficient(InsufficientAnswer) {
		t.Fatal("exact sentinel should match")
	}
	if !IsInsufficient("Sorry. " + InsufficientAnswer + " Try rephrasing.") {
		t.Fatal("embedded sentinel should match")
	}
	if IsInsufficient("Returns take 7 days.") {
		t.Fatal("regular answer should not match")
	}
}
