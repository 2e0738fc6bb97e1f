package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/accord/internal/core/renewal"
	"github.com/example/accord/internal/ports/primary"
)

// RenewalAdapter is a thin adapter that translates CLI operations to
// RenewalService calls.
type RenewalAdapter struct {
	service primary.RenewalService
	out     io.Writer
}

// NewRenewalAdapter creates a new RenewalAdapter with the given service.
func NewRenewalAdapter(service primary.RenewalService, out io.Writer) *RenewalAdapter {
	return &RenewalAdapter{
		service: service,
		out:     out,
	}
}

// Initiate starts a renewal process for an MoU.
func (a *RenewalAdapter) Initiate(ctx context.Context, mouID, proposedExpiry string, periodMonths int, notes string) error {
	req := primary.InitiateRenewalRequest{
		MoUID:               mouID,
		RenewalPeriodMonths: periodMonths,
		Notes:               notes,
	}
	if proposedExpiry != "" {
		t, err := time.Parse(dateLayout, proposedExpiry)
		if err != nil {
			return fmt.Errorf("invalid proposed expiry %q, want YYYY-MM-DD", proposedExpiry)
		}
		req.ProposedExpiryDate = t.UTC().Format(time.RFC3339)
	}

	r, err := a.service.Initiate(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Renewal %s initiated for MoU %s\n", r.ID, r.MoUID)
	return nil
}

// UpdateStatus moves a renewal through its workflow.
func (a *RenewalAdapter) UpdateStatus(ctx context.Context, renewalID, status, notes, declineReason string) error {
	r, err := a.service.UpdateStatus(ctx, primary.UpdateRenewalStatusRequest{
		RenewalID:     renewalID,
		NewStatus:     renewal.Status(status),
		Notes:         notes,
		DeclineReason: declineReason,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Renewal %s is now %s\n", r.ID, r.Status)
	return nil
}

// Complete closes a signed renewal against its successor MoU.
func (a *RenewalAdapter) Complete(ctx context.Context, renewalID, newMoUID string) error {
	r, err := a.service.Complete(ctx, primary.CompleteRenewalRequest{
		RenewalID: renewalID,
		NewMoUID:  newMoUID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Renewal %s completed, original MoU %s renewed into %s\n", r.ID, r.MoUID, r.RenewedMoUID)
	return nil
}

// Show displays details for a single renewal.
func (a *RenewalAdapter) Show(ctx context.Context, id string) error {
	r, err := a.service.GetRenewal(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nRenewal: %s\n", r.ID)
	fmt.Fprintf(a.out, "MoU:     %s\n", r.MoUID)
	fmt.Fprintf(a.out, "Status:  %s\n", r.Status)
	if r.ProposedExpiryDate != "" {
		fmt.Fprintf(a.out, "Proposed expiry: %s\n", r.ProposedExpiryDate)
	}
	if r.RenewalPeriodMonths > 0 {
		fmt.Fprintf(a.out, "Period: %d months\n", r.RenewalPeriodMonths)
	}
	if r.RenewedMoUID != "" {
		fmt.Fprintf(a.out, "Renewed into: %s\n", r.RenewedMoUID)
	}
	if r.DeclineReason != "" {
		fmt.Fprintf(a.out, "Declined: %s\n", r.DeclineReason)
	}
	if r.Notes != "" {
		fmt.Fprintf(a.out, "Notes: %s\n", r.Notes)
	}
	fmt.Fprintln(a.out)
	return nil
}

// History lists the renewal history of an MoU, newest first.
func (a *RenewalAdapter) History(ctx context.Context, mouID string) error {
	renewals, err := a.service.ListByMoU(ctx, mouID)
	if err != nil {
		return err
	}

	if len(renewals) == 0 {
		fmt.Fprintln(a.out, "No renewals for this MoU")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-12s %s\n", "ID", "STATUS", "INITIATED")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, r := range renewals {
		fmt.Fprintf(a.out, "%-38s %-12s %s\n", r.ID, r.Status, r.CreatedAt)
	}
	fmt.Fprintln(a.out)
	return nil
}
