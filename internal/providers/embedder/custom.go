package embedder

import (
	"context"
	"fmt"

	"github.com/sandevgo/recall/internal/core"
)

// Func is a user-supplied embedding function.
type Func func(ctx context.Context, text string) ([]float32, error)

// Custom wraps a user-supplied embedding function as a provider.
type Custom struct {
	fn   Func
	dims int
}

func NewCustom(fn Func, dims int) (*Custom, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: custom embedder requires a function", core.ErrConfiguration)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("%w: custom embedder requires positive dimensions", core.ErrConfiguration)
	}
	return &Custom{fn: fn, dims: dims}, nil
}

func (e *Custom) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.fn(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: custom: %v", core.ErrEmbedding, err)
	}
	return vec, nil
}

func (e *Custom) Dimensions() int {
	return e.dims
}
