package cli

import (
	"github.com/spf13/cobra"

	"github.com/andreasstove999/costify/internal/db"
	"github.com/andreasstove999/costify/internal/logging"
)

func newMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  "Apply pending database migrations, or roll back the last N with --down N.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cmd.Flags().Changed("down") {
				return db.RollbackMigrations(cfg.DatabaseDSN, down, logger)
			}
			return db.RunMigrations(cfg.DatabaseDSN, logger)
		},
	}

	cmd.Flags().IntVar(&down, "down", 1, "number of migrations to roll back")
	return cmd
}
