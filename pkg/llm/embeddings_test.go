package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbeddingProviderOpenAI(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req openAIEmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Fatalf("expected 2 inputs, got %d", len(req.Input))
		}
		fmt.Fprint(w, `{"data":[{"embedding":[0.1,0.2]},{"embedding":[0.3,0.4]}]}`)
	}))
	defer server.Close()

	client, err := NewEmbeddingClient(Config{
		Provider: "openai",
		APIURL:   server.URL,
		APIKey:   "test-key",
		Model:    "text-embedding-3-small",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	vecs, err := client.Embed(context.Background(), []string{"laptop", "mouse"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vecs) != 2 || len(vecs[0]) != 2 {
		t.Fatalf("unexpected vectors %v", vecs)
	}
}

type fixedEmbedder struct {
	width int
	err   error
}

func (f *fixedEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(inputs))
	for range inputs {
		out = append(out, make([]float32, f.width))
	}
	return out, nil
}

func TestProbeEmbeddingDimensions(t *testing.T) {
	t.Parallel()

	dims, err := ProbeEmbeddingDimensions(context.Background(), &fixedEmbedder{width: 1536})
	if err != nil {
		t.Fatalf("dimensions: %v", err)
	}
	if dims != 1536 {
		t.Fatalf("expected 1536 dimensions, got %d", dims)
	}

	if _, err := ProbeEmbeddingDimensions(context.Background(), &fixedEmbedder{width: 0}); err == nil {
		t.Fatalf("expected error for empty embedding")
	}
}
