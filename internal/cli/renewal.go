package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/accord/internal/wire"
)

var renewalCmd = &cobra.Command{
	Use:   "renewal",
	Short: "Manage MoU renewals",
	Long:  "Initiate and track renewal processes for active or expired MoUs",
}

var renewalInitiateCmd = &cobra.Command{
	Use:   "initiate [mou-id]",
	Short: "Start a renewal process for an MoU",
	Long: `Start a renewal process. The MoU must be active or expired, and only
one renewal may be open per MoU at a time.

Examples:
  accord renewal initiate MOU-ID --months 24
  accord renewal initiate MOU-ID --proposed-expiry 2027-06-01 --notes "extend scope"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		proposedExpiry, _ := cmd.Flags().GetString("proposed-expiry")
		months, _ := cmd.Flags().GetInt("months")
		notes, _ := cmd.Flags().GetString("notes")

		return wire.RenewalAdapter().Initiate(ctx, args[0], proposedExpiry, months, notes)
	},
}

var renewalStatusCmd = &cobra.Command{
	Use:   "status [renewal-id] [status]",
	Short: "Move a renewal through its workflow",
	Long: `Move a renewal to a new workflow status: negotiation, approved, signed
or declined. Declining requires --reason.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()
		notes, _ := cmd.Flags().GetString("notes")
		reason, _ := cmd.Flags().GetString("reason")

		return wire.RenewalAdapter().UpdateStatus(ctx, args[0], args[1], notes, reason)
	},
}

var renewalCompleteCmd = &cobra.Command{
	Use:   "complete [renewal-id] [new-mou-id]",
	Short: "Complete a signed renewal against its successor MoU",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()

		return wire.RenewalAdapter().Complete(ctx, args[0], args[1])
	},
}

var renewalShowCmd = &cobra.Command{
	Use:   "show [renewal-id]",
	Short: "Show renewal details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()

		return wire.RenewalAdapter().Show(ctx, args[0])
	},
}

var renewalHistoryCmd = &cobra.Command{
	Use:   "history [mou-id]",
	Short: "List the renewal history of an MoU",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext()

		return wire.RenewalAdapter().History(ctx, args[0])
	},
}

// RenewalCmd returns the renewal command
func RenewalCmd() *cobra.Command {
	renewalInitiateCmd.Flags().String("proposed-expiry", "", "Proposed new expiry date (YYYY-MM-DD)")
	renewalInitiateCmd.Flags().Int("months", 0, "Renewal period in months")
	renewalInitiateCmd.Flags().String("notes", "", "Renewal notes")

	renewalStatusCmd.Flags().String("notes", "", "Status notes")
	renewalStatusCmd.Flags().String("reason", "", "Decline reason (required for declined)")

	renewalCmd.AddCommand(renewalInitiateCmd)
	renewalCmd.AddCommand(renewalStatusCmd)
	renewalCmd.AddCommand(renewalCompleteCmd)
	renewalCmd.AddCommand(renewalShowCmd)
	renewalCmd.AddCommand(renewalHistoryCmd)

	return renewalCmd
}
