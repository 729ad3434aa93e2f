package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"birthdays/internal/jobs"
	"birthdays/internal/logger"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Purge stale sharing links once and exit",
	Long: `Delete sharing links that expired or were revoked longer than the
configured retention ago and have no pending submissions left.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		job := jobs.NewLinkCleanup(a.db, a.cfg.Policy.CleanupInterval, a.cfg.Policy.CleanupRetention)
		n, err := job.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("cleanup finished", zap.Int64("deleted", n))
		return nil
	},
}
