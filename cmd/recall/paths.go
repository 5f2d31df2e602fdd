package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/recall/internal/config"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the resolved storage layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := config.NewAppConfig()
		if err != nil {
			return err
		}
		root, err := appCfg.Root()
		if err != nil {
			return err
		}

		fmt.Printf("project:    %s\n", appCfg.Project)
		fmt.Printf("root:       %s\n", root)
		fmt.Printf("short-term: %s\n", appCfg.ShortTermPath(root))
		fmt.Printf("entities:   %s\n", appCfg.EntitiesPath(root))
		fmt.Printf("database:   %s\n", appCfg.DatabasePath(root))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
