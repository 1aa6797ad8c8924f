package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/storage"
	"github.com/yeisme/mediavault/pkg/internal/worker"
	"github.com/yeisme/mediavault/pkg/log"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "start the media processing worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.InitConfig(configPath); err != nil {
			return fmt.Errorf("init config: %w", err)
		}

		log.Init()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mgr, err := storage.Init(ctx)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		defer mgr.Close()

		log.Logger().Info().Msg("media worker started")

		return worker.NewWorker(mgr).Run(ctx)
	},
}

// registerWorkerCommand 注册处理工作进程命令.
func registerWorkerCommand() {
	rootCmd.AddCommand(workerCmd)
}
