// Package rag produces answers grounded in retrieved policy and FAQ
// passages. The answerer retrieves top-k passages, builds a prompt that
// restricts the model to that context, and detects the explicit
// insufficiency sentinel so callers can fall back further.
package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/llm"
	"github.com/abhinavk0220/ecommerce-chat-assistant/pkg/logging"
)

// InsufficientAnswer is the exact phrase the model is instructed to emit
// when the retrieved context does not contain the answer.
const InsufficientAnswer = "I'm not sure based on the available information."

// SourceRef points a caller at one context document used for an answer.
type SourceRef struct {
	ID      int    `json:"id"`
	Source  string `json:"source"`
	Preview string `json:"preview"`
}

// Answer is a grounded answer plus the context that produced it.
type Answer struct {
	Text    string      `json:"answer"`
	Docs    []Document  `json:"context_docs"`
	Sources []SourceRef `json:"sources"`
}

type Answerer struct {
	retriever Retriever
	provider  llm.Provider
	topK      int
	logger    logging.Logger
}

func NewAnswerer(retriever Retriever, provider llm.Provider, topK int, logger logging.Logger) *Answerer {
	if topK <= 0 {
		topK = 4
	}
	return &Answerer{retriever: retriever, provider: provider, topK: topK, logger: logger}
}

// Answer retrieves context for the question and asks the model to answer
// from that context only.
func (a *Answerer) Answer(ctx context.Context, question string) (Answer, error) {
	docs, err := a.retriever.TopK(ctx, question, a.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}
	docs = dedupeDocs(docs)

	a.logger.WithFields(logging.Fields{
		"question_length": len(question),
		"documents":       len(docs),
	}).Debug("Answering with retrieved context")

	prompt := buildPrompt(question, docs)
	text, err := completeText(ctx, a.provider, prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("generate grounded answer: %w", err)
	}

	ans := Answer{Text: strings.TrimSpace(text), Docs: docs}
	for i, d := range docs {
		preview := d.Content
		if len(preview) > 200 {
			preview = preview[:200]
		}
		ans.Sources = append(ans.Sources, SourceRef{ID: i + 1, Source: d.Source, Preview: preview})
	}
	return ans, nil
}

// IsInsufficient reports whether an answer is the model declining for lack
// of context.
func IsInsufficient(text string) bool {
	return strings.Contains(text, InsufficientAnswer)
}

// dedupeDocs drops repeated (source, content) pairs while preserving order.
func dedupeDocs(docs []Document) []Document {
	type key struct {
		source  string
		content string
	}
	seen := make(map[key]struct{}, len(docs))
	out := docs[:0]
	for _, d := range docs {
		k := key{source: d.Source, content: strings.TrimSpace(d.Content)}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	return out
}

const promptRules = `You are a helpful assistant that answers questions based ONLY on the provided context documents.

Rules:
- If the answer is clearly present in the context, answer concisely and clearly.
- If the answer is NOT in the context, say: "` + InsufficientAnswer + `"
- Do NOT invent facts that are not supported by the context.
- When you use information from a specific document, mention it in brackets like [Doc 1], [Doc 2], etc.
- You can refer to multiple documents if needed, e.g., [Doc 1][Doc 3].`

func buildPrompt(question string, docs []Document) string {
	blocks := make([]string, 0, len(docs))
	for i, d := range docs {
		source := d.Source
		if source == "" {
			source = "unknown"
		}
		blocks = append(blocks, fmt.Sprintf("[Doc %d | Source: %s]\n%s", i+1, source, d.Content))
	}

	var b strings.Builder
	b.WriteString(promptRules)
	b.WriteString("\n\nContext:\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	b.WriteString("\n\nUser question:\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer (follow the rules above):\n")
	return b.String()
}

// completeText runs one tool-free completion and concatenates the streamed
// content.
func completeText(ctx context.Context, provider llm.Provider, prompt string) (string, error) {
	stream, err := provider.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var b strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		b.WriteString(chunk.Content)
	}
	return b.String(), nil
}
