package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

type vectorSearcher interface {
	Search(ctx context.Context, query string, limit int, threshold float32) ([]core.MemoryItem, error)
}

type taskSearcher interface {
	Search(ctx context.Context, taskDescription string, limit int) ([]core.TaskExecutionRecord, error)
}

// Contextual fuses short-term, entity, and long-term recall into one
// ranked, deduplicated context. It performs no writes; source failures
// and cancellations degrade to a partial (possibly empty) context.
type Contextual struct {
	short    vectorSearcher
	entities vectorSearcher
	long     taskSearcher
	cfg      *config.ContextConfig

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

func NewContextual(short, entities vectorSearcher, long taskSearcher, cfg *config.ContextConfig) *Contextual {
	return &Contextual{
		short:    short,
		entities: entities,
		long:     long,
		cfg:      cfg,
	}
}

type sourceEntries struct {
	source  core.Source
	entries []core.ContextEntry
}

// BuildContext fans out to the memories in parallel, then merges the
// pre-ranked candidate lists by weighted rank fusion. Equal combined
// scores rank entities over long-term over short-term recall. If the
// context is cancelled mid-flight, whatever has completed is merged:
// partial context is preferable to no context under a deadline.
func (c *Contextual) BuildContext(ctx context.Context, q core.ContextQuery) (core.MergedContext, error) {
	threshold := c.cfg.ScoreThreshold
	if q.ScoreThreshold != nil {
		threshold = *q.ScoreThreshold
	}

	results := make(chan sourceEntries, 3)
	launched := 0

	launched++
	go func() {
		items, err := c.short.Search(ctx, q.Text, c.cfg.ShortTermLimit, threshold)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("short-term recall failed")
		}
		results <- sourceEntries{core.SourceShortTerm, itemEntries(core.SourceShortTerm, items)}
	}()

	launched++
	go func() {
		items, err := c.entities.Search(ctx, q.Text, c.cfg.EntityLimit, threshold)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("entity recall failed")
		}
		results <- sourceEntries{core.SourceEntity, itemEntries(core.SourceEntity, items)}
	}()

	if q.IncludeLongTerm && c.long != nil {
		launched++
		go func() {
			records, err := c.long.Search(ctx, q.Text, c.cfg.LongTermLimit)
			if err != nil {
				log.FromCtx(ctx).Warn().Err(err).Msg("long-term recall failed")
			}
			results <- sourceEntries{core.SourceLongTerm, recordEntries(records)}
		}()
	}

	collected := make(map[core.Source][]core.ContextEntry, launched)
collect:
	for i := 0; i < launched; i++ {
		select {
		case r := <-results:
			collected[r.source] = r.entries
		case <-ctx.Done():
			log.FromCtx(ctx).Debug().Int("completed", i).Msg("context build cancelled, merging partial results")
			break collect
		}
	}

	weights := map[core.Source]float64{
		core.SourceEntity:    c.cfg.EntityWeight,
		core.SourceLongTerm:  c.cfg.LongTermWeight,
		core.SourceShortTerm: c.cfg.ShortTermWeight,
	}

	// Fixed fusion order keeps the merge deterministic.
	lists := []sourceEntries{
		{core.SourceEntity, collected[core.SourceEntity]},
		{core.SourceLongTerm, collected[core.SourceLongTerm]},
		{core.SourceShortTerm, collected[core.SourceShortTerm]},
	}

	merged := fuse(lists, weights, c.cfg.DedupThreshold)

	if q.Limit > 0 && len(merged) > q.Limit {
		merged = merged[:q.Limit]
	}
	if c.cfg.MaxContextTokens > 0 {
		merged = c.truncateToTokenBudget(ctx, merged, c.cfg.MaxContextTokens)
	}

	return core.MergedContext{Entries: merged}, nil
}

func itemEntries(source core.Source, items []core.MemoryItem) []core.ContextEntry {
	entries := make([]core.ContextEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, core.ContextEntry{
			Source:   source,
			Content:  item.Content,
			Metadata: item.Metadata,
		})
	}
	return entries
}

func recordEntries(records []core.TaskExecutionRecord) []core.ContextEntry {
	entries := make([]core.ContextEntry, 0, len(records))
	for _, rec := range records {
		content := rec.ActualOutput
		if content == "" {
			content = rec.TaskDescription
		}
		entries = append(entries, core.ContextEntry{
			Source:  core.SourceLongTerm,
			Content: content,
			Metadata: map[string]string{
				"task_description": rec.TaskDescription,
				"agent_role":       rec.AgentRole,
				"quality_score":    strconv.FormatFloat(rec.QualityScore, 'f', -1, 64),
			},
		})
	}
	return entries
}

// truncateToTokenBudget drops trailing entries once the budget is
// spent. The top entry survives even when it alone exceeds the budget:
// some context beats none.
func (c *Contextual) truncateToTokenBudget(ctx context.Context, entries []core.ContextEntry, budget int) []core.ContextEntry {
	c.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("failed to load tokenizer, token budget disabled")
			return
		}
		c.enc = enc
	})
	if c.enc == nil {
		return entries
	}

	total := 0
	for i, e := range entries {
		total += len(c.enc.Encode(e.Content, nil, nil))
		if total > budget && i > 0 {
			return entries[:i]
		}
	}
	return entries
}
