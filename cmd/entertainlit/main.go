package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoArmGo/EntertainLit/internal/app"
	"github.com/GoArmGo/EntertainLit/internal/di"
)

func main() {
	// bootstrap-логгер (используется только на этапе инициализации, пока нет основного)
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	if err := newRootCmd(bootstrapLogger).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(bootstrapLogger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "entertainlit",
		Short:         "EntertainLit: учёт потребления контента, очки и лента активности",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newModeCmd("serve", "Запустить HTTP API", app.ModeServer, bootstrapLogger),
		newModeCmd("worker", "Запустить потребителя событий RabbitMQ", app.ModeWorker, bootstrapLogger),
	)
	return root
}

func newModeCmd(use, short, mode string, bootstrapLogger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootstrapLogger.Info("starting application", "mode", mode)

			application, err := di.BuildApp(cmd.Context())
			if err != nil {
				bootstrapLogger.Error("failed to build app", "error", err)
				return err
			}

			logger := application.LoggerIns()
			if err := application.Run(cmd.Context(), mode); err != nil {
				logger.Error("application run failed", "error", err)
				return err
			}
			return nil
		},
	}
}
