package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/accord/internal/config"
	"github.com/example/accord/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the accord database and config",
	Long: `Initialize the accord database (~/.accord/accord.db) and write a
.accord/config.json in the current directory.

Examples:
  accord init
  accord init --actor jane.doe --expiry-alert-days 45`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := db.GetDB(); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		dbPath, err := db.GetDBPath()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Database ready at %s\n", dbPath)

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		cfg, err := config.LoadConfig(cwd)
		if err != nil {
			cfg = &config.Config{Version: "1.0"}
		}
		if actor, _ := cmd.Flags().GetString("actor"); actor != "" {
			cfg.ActorID = actor
		}
		if days, _ := cmd.Flags().GetInt("renewal-alert-days"); days > 0 {
			cfg.RenewalAlertDays = days
		}
		if days, _ := cmd.Flags().GetInt("deliverable-alert-days"); days > 0 {
			cfg.DeliverableAlertDays = days
		}
		if days, _ := cmd.Flags().GetInt("expiry-alert-days"); days > 0 {
			cfg.ExpiryAlertDays = days
		}
		if recipients, _ := cmd.Flags().GetStringSlice("recipients"); len(recipients) > 0 {
			cfg.AlertRecipients = recipients
		}

		if err := config.SaveConfig(cwd, cfg); err != nil {
			return err
		}
		fmt.Printf("✓ Config written to %s/.accord/config.json\n", cwd)
		return nil
	},
}

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	initCmd.Flags().String("actor", "", "Default actor ID recorded in the audit trail")
	initCmd.Flags().Int("renewal-alert-days", 0, "Days before expiry to raise renewal alerts (default 90)")
	initCmd.Flags().Int("deliverable-alert-days", 0, "Days before due date to raise deliverable alerts (default 30)")
	initCmd.Flags().Int("expiry-alert-days", 0, "Days before expiry to raise expiry alerts (default 60)")
	initCmd.Flags().StringSlice("recipients", nil, "Default alert recipients")

	return initCmd
}
