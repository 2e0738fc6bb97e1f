// Package cli wires cobra commands to the CLI adapters. Commands parse flags
// and arguments; everything else is delegated.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/accord/internal/adapters/cli"
	"github.com/example/accord/internal/config"
	"github.com/example/accord/internal/ctxutil"
	"github.com/example/accord/internal/wire"
)

// commandContext returns a context carrying the acting user for audit
// entries. ACCORD_ACTOR wins over the configured actor_id.
func commandContext() context.Context {
	ctx := context.Background()
	actor := os.Getenv("ACCORD_ACTOR")
	if actor == "" {
		if cwd, err := os.Getwd(); err == nil {
			if cfg, err := config.LoadConfig(cwd); err == nil {
				actor = cfg.ActorID
			}
		}
	}
	if actor != "" {
		ctx = ctxutil.WithActorID(ctx, actor)
	}
	return ctx
}

var mouCmd = &cobra.Command{
	Use:   "mou",
	Short: "Manage MoUs (memoranda of understanding)",
	Long:  "Create, list, and manage MoUs through their lifecycle",
}

var mouCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new MoU",
	Long: `Create a new MoU in draft status with a generated reference number.

Parties are given as type:id:role, e.g. country:KEN:primary.

Examples:
  accord mou create "Health Partnership" --type bilateral \
    --party country:KEN:primary --party organization:who:secondary
  accord mou create "Trade Framework" --type framework \
    --party country:KEN:primary --party country:UGA:secondary \
    --expiry 2027-06-01 --auto-renewal`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		title := args[0]
		mouType, _ := cmd.Flags().GetString("type")
		parties, _ := cmd.Flags().GetStringArray("party")
		signDate, _ := cmd.Flags().GetString("sign-date")
		effectiveDate, _ := cmd.Flags().GetString("effective-date")
		expiryDate, _ := cmd.Flags().GetString("expiry")
		autoRenewal, _ := cmd.Flags().GetBool("auto-renewal")

		return wire.MoUAdapter().Create(ctx, title, mouType, parties, signDate, effectiveDate, expiryDate, autoRenewal)
	},
}

var mouListCmd = &cobra.Command{
	Use:   "list",
	Short: "List MoUs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		status, _ := cmd.Flags().GetString("status")
		mouType, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		return wire.MoUAdapter().List(ctx, status, mouType, limit)
	},
}

var mouShowCmd = &cobra.Command{
	Use:   "show [mou-id]",
	Short: "Show MoU details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()

		_, err := wire.MoUAdapter().Show(ctx, args[0])
		return err
	},
}

var mouUpdateCmd = &cobra.Command{
	Use:   "update [mou-id]",
	Short: "Update MoU fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		opts := cliadapter.UpdateOptions{}

		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			opts.Title = &title
		}
		if cmd.Flags().Changed("notes") {
			notes, _ := cmd.Flags().GetString("notes")
			opts.Notes = &notes
		}
		if cmd.Flags().Changed("auto-renewal") {
			autoRenewal, _ := cmd.Flags().GetBool("auto-renewal")
			opts.AutoRenewal = &autoRenewal
		}
		opts.SignDate, _ = cmd.Flags().GetString("sign-date")
		opts.EffectiveDate, _ = cmd.Flags().GetString("effective-date")
		opts.ExpiryDate, _ = cmd.Flags().GetString("expiry")

		return wire.MoUAdapter().Update(ctx, args[0], opts)
	},
}

var mouTransitionCmd = &cobra.Command{
	Use:   "transition [mou-id] [status]",
	Short: "Move an MoU to a new lifecycle status",
	Long: `Move an MoU through its lifecycle: draft, negotiation, signed, active,
expired, renewed, terminated. Illegal transitions are rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()

		return wire.MoUAdapter().Transition(ctx, args[0], args[1])
	},
}

var mouDeliverableCmd = &cobra.Command{
	Use:   "deliverable",
	Short: "Manage MoU deliverables",
}

var mouDeliverableAddCmd = &cobra.Command{
	Use:   "add [mou-id] [title]",
	Short: "Add a deliverable to an MoU",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		responsible, _ := cmd.Flags().GetString("responsible")
		due, _ := cmd.Flags().GetString("due")

		return wire.MoUAdapter().AddDeliverable(ctx, args[0], args[1], responsible, due)
	},
}

var mouDeliverableUpdateCmd = &cobra.Command{
	Use:   "update [mou-id] [deliverable-id]",
	Short: "Update a deliverable's status or progress",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		status, _ := cmd.Flags().GetString("status")
		notes, _ := cmd.Flags().GetString("notes")
		percentage := -1
		if cmd.Flags().Changed("percentage") {
			percentage, _ = cmd.Flags().GetInt("percentage")
		}

		return wire.MoUAdapter().UpdateDeliverable(ctx, args[0], args[1], status, percentage, notes)
	},
}

var mouPerformanceCmd = &cobra.Command{
	Use:   "performance [mou-id]",
	Short: "Show the weighted performance score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()

		return wire.MoUAdapter().Performance(ctx, args[0])
	},
}

var mouAlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage MoU alerts",
}

var mouAlertsRecalcCmd = &cobra.Command{
	Use:   "recalc [mou-id]",
	Short: "Recompute the alert schedule from the MoU's dates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()

		return wire.MoUAdapter().RecalculateAlerts(ctx, args[0])
	},
}

var mouAlertsSentCmd = &cobra.Command{
	Use:   "sent [mou-id]",
	Short: "Mark an alert as dispatched",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		alertType, _ := cmd.Flags().GetString("type")
		date, _ := cmd.Flags().GetString("date")

		return wire.MoUAdapter().MarkAlertSent(ctx, args[0], alertType, date)
	},
}

var mouExpiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "List MoUs expiring soon",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		days, _ := cmd.Flags().GetInt("days")

		return wire.MoUAdapter().Expiring(ctx, days)
	},
}

var mouDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List deliverables due soon across active MoUs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		days, _ := cmd.Flags().GetInt("days")

		return wire.MoUAdapter().DueDeliverables(ctx, days)
	},
}

var mouSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire active MoUs past their expiry date",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()

		return wire.MoUAdapter().ExpireOverdue(ctx)
	},
}

// MoUCmd returns the mou command
func MoUCmd() *cobra.Command {
	mouCreateCmd.Flags().StringP("type", "t", "bilateral", "MoU type (bilateral, multilateral, framework, technical, cooperation)")
	mouCreateCmd.Flags().StringArrayP("party", "p", nil, "Party as type:id:role (repeatable, at least 2)")
	mouCreateCmd.Flags().String("sign-date", "", "Sign date (YYYY-MM-DD)")
	mouCreateCmd.Flags().String("effective-date", "", "Effective date (YYYY-MM-DD)")
	mouCreateCmd.Flags().String("expiry", "", "Expiry date (YYYY-MM-DD)")
	mouCreateCmd.Flags().Bool("auto-renewal", false, "Enable auto-renewal alerts")

	mouListCmd.Flags().StringP("status", "s", "", "Filter by status")
	mouListCmd.Flags().StringP("type", "t", "", "Filter by type")
	mouListCmd.Flags().Int("limit", 0, "Limit the number of results")

	mouUpdateCmd.Flags().String("title", "", "New title")
	mouUpdateCmd.Flags().String("notes", "", "New notes")
	mouUpdateCmd.Flags().String("sign-date", "", "Sign date (YYYY-MM-DD)")
	mouUpdateCmd.Flags().String("effective-date", "", "Effective date (YYYY-MM-DD)")
	mouUpdateCmd.Flags().String("expiry", "", "Expiry date (YYYY-MM-DD)")
	mouUpdateCmd.Flags().Bool("auto-renewal", false, "Enable or disable auto-renewal alerts")

	mouDeliverableAddCmd.Flags().String("responsible", "", "Responsible party")
	mouDeliverableAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	mouDeliverableUpdateCmd.Flags().String("status", "", "New status (pending, in_progress, completed, delayed, cancelled)")
	mouDeliverableUpdateCmd.Flags().Int("percentage", 0, "Completion percentage")
	mouDeliverableUpdateCmd.Flags().String("notes", "", "Progress notes")

	mouAlertsSentCmd.Flags().String("type", "", "Alert type (expiry, renewal, deliverable, review)")
	mouAlertsSentCmd.Flags().String("date", "", "Alert date (YYYY-MM-DD)")

	mouExpiringCmd.Flags().Int("days", 0, "Window in days (default 90)")
	mouDueCmd.Flags().Int("days", 0, "Window in days (default 30)")

	mouDeliverableCmd.AddCommand(mouDeliverableAddCmd)
	mouDeliverableCmd.AddCommand(mouDeliverableUpdateCmd)
	mouAlertsCmd.AddCommand(mouAlertsRecalcCmd)
	mouAlertsCmd.AddCommand(mouAlertsSentCmd)

	mouCmd.AddCommand(mouCreateCmd)
	mouCmd.AddCommand(mouListCmd)
	mouCmd.AddCommand(mouShowCmd)
	mouCmd.AddCommand(mouUpdateCmd)
	mouCmd.AddCommand(mouTransitionCmd)
	mouCmd.AddCommand(mouDeliverableCmd)
	mouCmd.AddCommand(mouPerformanceCmd)
	mouCmd.AddCommand(mouAlertsCmd)
	mouCmd.AddCommand(mouExpiringCmd)
	mouCmd.AddCommand(mouDueCmd)
	mouCmd.AddCommand(mouSweepCmd)

	return mouCmd
}
