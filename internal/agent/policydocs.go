package agent

import (
	"context"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/rag"
	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/tools"
)

// Answerer is the retrieval-augmented answering boundary the loop and the
// fallback chain depend on.
type Answerer interface {
	Answer(ctx context.Context, question string) (rag.Answer, error)
}

// PolicySearchSpec exposes grounded policy retrieval to the model as a
// regular registry tool, so the loop can mix document lookups with the
// deterministic catalog tools.
func PolicySearchSpec(answerer Answerer) tools.Spec {
	return tools.Spec{
		Name:        "search_policy_docs",
		Description: "Search company policy documents and FAQs (returns, refunds, shipping, warranty terms).",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The policy question to look up",
				},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, args tools.Args) (map[string]interface{}, error) {
			ans, err := answerer.Answer(ctx, args.String("query"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"answer":  ans.Text,
				"sources": ans.Sources,
			}, nil
		},
	}
}
