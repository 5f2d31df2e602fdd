package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/providers/embedder"
	"github.com/sandevgo/recall/internal/providers/usermem"
	"github.com/sandevgo/recall/internal/storage/chromem"
	"github.com/sandevgo/recall/internal/storage/sqlite"
	"github.com/sandevgo/recall/pkg/log"
)

// Engine owns every memory subsystem for one storage root. Construct it
// once per process; all stores share the root resolved at construction.
type Engine struct {
	ShortTerm  *ShortTerm
	Entities   *Entities
	LongTerm   *LongTerm
	Kickoff    core.KickoffOutputsRepository
	Contextual *Contextual
	Reset      *ResetManager
	UserMemory core.UserMemory

	db   *sql.DB
	root string
}

type Option func(*engineOpts)

type engineOpts struct {
	embedder core.Embedder
	userMem  core.UserMemory
}

// WithEmbedder injects a caller-supplied embedding provider. Required
// when the configured provider kind is "custom".
func WithEmbedder(e core.Embedder) Option {
	return func(o *engineOpts) { o.embedder = e }
}

// WithUserMemory overrides the user memory client, mainly for tests.
func WithUserMemory(u core.UserMemory) Option {
	return func(o *engineOpts) { o.userMem = u }
}

func NewEngine(ctx context.Context, appCfg *config.AppConfig, embCfg *config.EmbedderConfig, ctxCfg *config.ContextConfig, opts ...Option) (*Engine, error) {
	var o engineOpts
	for _, opt := range opts {
		opt(&o)
	}

	root, err := appCfg.Root()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create storage root %s: %v", core.ErrStorage, root, err)
	}

	emb := o.embedder
	if emb == nil {
		emb, err = embedder.NewProvider(ctx, embCfg)
		if err != nil {
			return nil, err
		}
	}

	shortStore, err := chromem.New(appCfg.ShortTermPath(root), "short_term", emb.Dimensions())
	if err != nil {
		return nil, err
	}
	entityStore, err := chromem.New(appCfg.EntitiesPath(root), "entities", emb.Dimensions())
	if err != nil {
		return nil, err
	}
	db, err := sqlite.NewDB(ctx, appCfg.DatabasePath(root))
	if err != nil {
		return nil, err
	}

	taskRepo := sqlite.NewTaskResultsRepo(db)
	kickoffRepo := sqlite.NewKickoffOutputsRepo(db)

	eng := &Engine{
		ShortTerm: NewShortTerm(shortStore, emb),
		Entities:  NewEntities(entityStore, emb),
		LongTerm:  NewLongTerm(taskRepo, ctxCfg.MinQuality),
		Kickoff:   kickoffRepo,
		db:        db,
		root:      root,
	}
	eng.Contextual = NewContextual(eng.ShortTerm, eng.Entities, eng.LongTerm, ctxCfg)
	eng.Reset = NewResetManager(eng.ShortTerm, eng.Entities, eng.LongTerm, kickoffRepo)

	if o.userMem != nil {
		eng.UserMemory = o.userMem
	} else {
		umCfg, err := config.NewUserMemoryConfig()
		if err != nil {
			db.Close()
			return nil, err
		}
		if umCfg.Enabled {
			eng.UserMemory = usermem.New(umCfg.BaseURL, umCfg.APIKey)
		}
	}

	log.FromCtx(ctx).Info().Str("root", root).Msg("memory engine initialized")
	return eng, nil
}

// Root reports the resolved storage root the engine operates on.
func (e *Engine) Root() string {
	return e.root
}

func (e *Engine) Close() error {
	return e.db.Close()
}
