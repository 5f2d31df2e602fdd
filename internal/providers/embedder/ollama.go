package embedder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/recall/internal/core"
)

// Ollama is the locally-hosted embedding provider.
type Ollama struct {
	baseProvider
}

func NewOllama(baseURL, model string, dims int) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Ollama{
		baseProvider: newBaseProvider(baseURL, model, dims),
	}
}

func (e *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]any{
		"model":  e.model,
		"prompt": text,
	}

	resp, err := e.doRequest(ctx, http.MethodPost, "/api/embeddings", payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %v", core.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: read body: %v", core.ErrEmbedding, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ollama: http %d: %s", core.ErrEmbedding, resp.StatusCode, string(data))
	}

	var result struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: ollama: decode: %v", core.ErrEmbedding, err)
	}
	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("%w: ollama returned no embedding", core.ErrEmbedding)
	}
	return result.Embedding, nil
}

func (e *Ollama) Dimensions() int {
	return e.dims
}
