package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/storage/db"
	"github.com/yeisme/mediavault/pkg/log"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "apply catalog schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.InitConfig(configPath); err != nil {
			return fmt.Errorf("init config: %w", err)
		}

		log.Init()

		client, err := db.New(context.Background())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer client.Close()

		if err := client.GetDB().AutoMigrate(&model.MediaAsset{}); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "catalog schema migrated")

		return nil
	},
}

// registerMigrateCommand 注册数据库迁移命令.
func registerMigrateCommand() {
	rootCmd.AddCommand(migrateCmd)
}
