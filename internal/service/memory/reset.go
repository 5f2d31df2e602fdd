package memory

import (
	"context"
	"fmt"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

type clearer interface {
	Clear(ctx context.Context) error
}

// ResetManager administers per-memory clearing. Scopes combine
// additively; resetting an already-empty store is a no-op success.
// Each clear excludes writers of its own store only, never the others.
type ResetManager struct {
	stores map[core.ResetScope]clearer
}

func NewResetManager(short, entities, long, kickoff clearer) *ResetManager {
	return &ResetManager{
		stores: map[core.ResetScope]clearer{
			core.ScopeShort:          short,
			core.ScopeEntities:       entities,
			core.ScopeLong:           long,
			core.ScopeKickoffOutputs: kickoff,
		},
	}
}

func (m *ResetManager) Reset(ctx context.Context, scopes ...core.ResetScope) error {
	expanded := expandScopes(scopes)
	if len(expanded) == 0 {
		return nil
	}

	for _, scope := range expanded {
		store, ok := m.stores[scope]
		if !ok {
			return fmt.Errorf("%w: unknown reset scope: %s", core.ErrConfiguration, scope)
		}
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("reset %s: %w", scope, err)
		}
		log.FromCtx(ctx).Info().Str("scope", string(scope)).Msg("memory cleared")
	}
	return nil
}

// expandScopes flattens "all" and drops duplicates, preserving a fixed
// clearing order.
func expandScopes(scopes []core.ResetScope) []core.ResetScope {
	ordered := []core.ResetScope{core.ScopeShort, core.ScopeEntities, core.ScopeLong, core.ScopeKickoffOutputs}

	requested := make(map[core.ResetScope]bool, len(scopes))
	for _, s := range scopes {
		if s == core.ScopeAll {
			for _, known := range ordered {
				requested[known] = true
			}
			continue
		}
		requested[s] = true
	}

	var out []core.ResetScope
	for _, s := range ordered {
		if requested[s] {
			out = append(out, s)
			delete(requested, s)
		}
	}
	// Anything left is unknown; keep it so Reset can report it.
	for s := range requested {
		out = append(out, s)
	}
	return out
}
