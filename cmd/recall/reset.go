package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/memory"
	"github.com/sandevgo/recall/internal/storage/chromem"
	"github.com/sandevgo/recall/internal/storage/sqlite"
	"github.com/sandevgo/recall/pkg/log"
)

var (
	resetShort    bool
	resetLong     bool
	resetEntities bool
	resetKickoff  bool
	resetAll      bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear selected memory stores",
	Long:  `Clears the selected memory stores under the resolved storage root. Scope flags combine; resetting an already-empty store succeeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		var scopes []core.ResetScope
		if resetShort {
			scopes = append(scopes, core.ScopeShort)
		}
		if resetEntities {
			scopes = append(scopes, core.ScopeEntities)
		}
		if resetLong {
			scopes = append(scopes, core.ScopeLong)
		}
		if resetKickoff {
			scopes = append(scopes, core.ScopeKickoffOutputs)
		}
		if resetAll {
			scopes = append(scopes, core.ScopeAll)
		}
		if len(scopes) == 0 {
			logger.Info().Msg("no scope flags given, nothing to reset")
			return nil
		}

		appCfg, err := config.NewAppConfig()
		if err != nil {
			return err
		}
		embCfg, err := config.NewEmbedderConfig()
		if err != nil {
			return err
		}

		root, err := appCfg.Root()
		if err != nil {
			return err
		}
		if _, err := os.Stat(root); os.IsNotExist(err) {
			logger.Info().Str("root", root).Msg("storage root does not exist, nothing to reset")
			return nil
		}

		// Clearing needs the stores, not the embedding provider.
		shortStore, err := chromem.New(appCfg.ShortTermPath(root), "short_term", embCfg.Dimensions)
		if err != nil {
			return err
		}
		entityStore, err := chromem.New(appCfg.EntitiesPath(root), "entities", embCfg.Dimensions)
		if err != nil {
			return err
		}
		db, err := sqlite.NewDB(ctx, appCfg.DatabasePath(root))
		if err != nil {
			return err
		}
		defer db.Close()

		mgr := memory.NewResetManager(
			shortStore,
			entityStore,
			sqlite.NewTaskResultsRepo(db),
			sqlite.NewKickoffOutputsRepo(db),
		)
		return mgr.Reset(ctx, scopes...)
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetShort, "short", false, "clear short-term memory")
	resetCmd.Flags().BoolVar(&resetEntities, "entities", false, "clear entity memory")
	resetCmd.Flags().BoolVar(&resetLong, "long", false, "clear long-term task records")
	resetCmd.Flags().BoolVar(&resetKickoff, "kickoff-outputs", false, "clear stored kickoff outputs")
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "clear every memory store")
	rootCmd.AddCommand(resetCmd)
}
