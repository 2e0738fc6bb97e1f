// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/ports/primary"
)

// dateLayout is the CLI-facing date format.
const dateLayout = "2006-01-02"

// MoUAdapter is a thin adapter that translates CLI operations to MoUService calls.
// It depends only on the MoUService interface, enabling easy testing with mocks.
type MoUAdapter struct {
	service primary.MoUService
	out     io.Writer
}

// NewMoUAdapter creates a new MoUAdapter with the given service.
func NewMoUAdapter(service primary.MoUService, out io.Writer) *MoUAdapter {
	return &MoUAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new MoU. Parties are given as type:id:role specs, e.g.
// "country:KEN:primary" or "organization:who:secondary".
func (a *MoUAdapter) Create(ctx context.Context, title, mouType string, partySpecs []string, signDate, effectiveDate, expiryDate string, autoRenewal bool) error {
	parties, err := parseParties(partySpecs)
	if err != nil {
		return err
	}

	req := primary.CreateMoURequest{
		Title:       title,
		Type:        mou.Type(mouType),
		Parties:     parties,
		AutoRenewal: autoRenewal,
	}
	if req.SignDate, err = parseDate(signDate, "sign date"); err != nil {
		return err
	}
	if req.EffectiveDate, err = parseDate(effectiveDate, "effective date"); err != nil {
		return err
	}
	if req.ExpiryDate, err = parseDate(expiryDate, "expiry date"); err != nil {
		return err
	}

	m, err := a.service.CreateMoU(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created MoU %s (%s): %s\n", m.ReferenceNumber, m.ID, m.Title)
	return nil
}

// UpdateOptions carries the optional fields for an MoU update. Nil or empty
// fields are left untouched.
type UpdateOptions struct {
	Title         *string
	Notes         *string
	SignDate      string
	EffectiveDate string
	ExpiryDate    string
	AutoRenewal   *bool
}

// Update applies a partial update to an MoU.
func (a *MoUAdapter) Update(ctx context.Context, id string, opts UpdateOptions) error {
	req := primary.UpdateMoURequest{
		MoUID:       id,
		Title:       opts.Title,
		Notes:       opts.Notes,
		AutoRenewal: opts.AutoRenewal,
	}
	var err error
	if req.SignDate, err = parseDate(opts.SignDate, "sign date"); err != nil {
		return err
	}
	if req.EffectiveDate, err = parseDate(opts.EffectiveDate, "effective date"); err != nil {
		return err
	}
	if req.ExpiryDate, err = parseDate(opts.ExpiryDate, "expiry date"); err != nil {
		return err
	}

	m, err := a.service.UpdateMoU(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ MoU %s updated\n", m.ReferenceNumber)
	return nil
}

// MarkAlertSent records that the alert identified by type and date has been
// dispatched.
func (a *MoUAdapter) MarkAlertSent(ctx context.Context, mouID, alertType, date string) error {
	at, err := parseDate(date, "alert date")
	if err != nil {
		return err
	}
	if at == nil {
		return fmt.Errorf("alert date is required")
	}

	m, err := a.service.MarkAlertSent(ctx, mouID, mou.AlertType(alertType), *at)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Alert %s on %s marked sent for %s\n", alertType, date, m.ReferenceNumber)
	return nil
}

// List lists MoUs with optional status and type filters.
func (a *MoUAdapter) List(ctx context.Context, status, mouType string, limit int) error {
	mous, err := a.service.ListMoUs(ctx, primary.MoUFilters{
		Status: mou.Status(status),
		Type:   mou.Type(mouType),
		Limit:  limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list MoUs: %w", err)
	}

	if len(mous) == 0 {
		fmt.Fprintln(a.out, "No MoUs found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-12s %-13s %-11s %s\n", "REFERENCE", "STATUS", "TYPE", "EXPIRES", "TITLE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────")
	for _, m := range mous {
		expires := "-"
		if m.ExpiryDate != nil {
			expires = m.ExpiryDate.Format(dateLayout)
		}
		fmt.Fprintf(a.out, "%-20s %-12s %-13s %-11s %s\n",
			m.ReferenceNumber, statusColor(m.Status).Sprint(m.Status), m.Type, expires, m.Title)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays details for a single MoU.
func (a *MoUAdapter) Show(ctx context.Context, id string) (*mou.MoU, error) {
	m, err := a.service.GetMoU(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get MoU: %w", err)
	}

	fmt.Fprintf(a.out, "\nMoU:     %s\n", m.ReferenceNumber)
	fmt.Fprintf(a.out, "Title:   %s\n", m.Title)
	fmt.Fprintf(a.out, "Type:    %s\n", m.Type)
	fmt.Fprintf(a.out, "Status:  %s\n", statusColor(m.Status).Sprint(m.Status))
	for _, p := range m.Parties {
		fmt.Fprintf(a.out, "Party:   %s %s (%s)\n", p.PartyType, p.PartyID, p.Role)
	}
	printDate(a.out, "Signed", m.SignDate)
	printDate(a.out, "Effective", m.EffectiveDate)
	printDate(a.out, "Expires", m.ExpiryDate)
	if m.AutoRenewal {
		fmt.Fprintln(a.out, "Auto-renewal: yes")
	}
	if len(m.Deliverables) > 0 {
		fmt.Fprintf(a.out, "\nDeliverables (%d):\n", len(m.Deliverables))
		for _, d := range m.Deliverables {
			due := "-"
			if d.DueDate != nil {
				due = d.DueDate.Format(dateLayout)
			}
			fmt.Fprintf(a.out, "  [%s] %s (%s) due %s\n", d.Status, d.Title, d.ID, due)
		}
	}
	if len(m.Alerts) > 0 {
		fmt.Fprintf(a.out, "\nAlerts (%d):\n", len(m.Alerts))
		for _, al := range m.Alerts {
			sent := ""
			if al.Sent {
				sent = " (sent)"
			}
			fmt.Fprintf(a.out, "  %s on %s%s\n", al.Type, al.Date.Format(dateLayout), sent)
		}
	}
	fmt.Fprintln(a.out)

	return m, nil
}

// Transition moves an MoU to a new lifecycle status.
func (a *MoUAdapter) Transition(ctx context.Context, id, status string) error {
	m, err := a.service.TransitionStatus(ctx, id, mou.Status(status))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ MoU %s is now %s\n", m.ReferenceNumber, statusColor(m.Status).Sprint(m.Status))
	return nil
}

// AddDeliverable appends a deliverable to an MoU.
func (a *MoUAdapter) AddDeliverable(ctx context.Context, mouID, title, responsible, dueDate string) error {
	d := mou.Deliverable{
		Title:            title,
		ResponsibleParty: responsible,
	}
	due, err := parseDate(dueDate, "due date")
	if err != nil {
		return err
	}
	d.DueDate = due

	m, err := a.service.AddDeliverable(ctx, mouID, d)
	if err != nil {
		return err
	}

	added := m.Deliverables[len(m.Deliverables)-1]
	fmt.Fprintf(a.out, "✓ Added deliverable %s to %s\n", added.ID, m.ReferenceNumber)
	return nil
}

// UpdateDeliverable patches one deliverable's status, progress and notes.
func (a *MoUAdapter) UpdateDeliverable(ctx context.Context, mouID, deliverableID, status string, percentage int, notes string) error {
	patch := mou.DeliverablePatch{}
	if status != "" {
		s := mou.DeliverableStatus(status)
		patch.Status = &s
	}
	if percentage >= 0 {
		patch.CompletionPercentage = &percentage
	}
	if notes != "" {
		patch.Notes = &notes
	}

	m, err := a.service.UpdateDeliverable(ctx, mouID, deliverableID, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Updated deliverable %s on %s\n", deliverableID, m.ReferenceNumber)
	return nil
}

// Performance prints the weighted performance breakdown for an MoU.
func (a *MoUAdapter) Performance(ctx context.Context, id string) error {
	perf, err := a.service.ComputePerformance(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nDeliverables completion: %6.2f%%\n", perf.DeliverablesCompletion)
	fmt.Fprintf(a.out, "On-time delivery:        %6.2f%%\n", perf.OnTimeDelivery)
	fmt.Fprintf(a.out, "Metrics achievement:     %6.2f%%\n", perf.MetricsAchievement)
	fmt.Fprintf(a.out, "Overall score:           %6.2f\n\n", perf.OverallScore)
	return nil
}

// RecalculateAlerts recomputes and persists the alert schedule for an MoU.
func (a *MoUAdapter) RecalculateAlerts(ctx context.Context, id string) error {
	m, err := a.service.RecalculateAlerts(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ MoU %s has %d alerts scheduled\n", m.ReferenceNumber, len(m.Alerts))
	return nil
}

// Expiring lists MoUs expiring within the given number of days.
func (a *MoUAdapter) Expiring(ctx context.Context, days int) error {
	mous, err := a.service.ListExpiring(ctx, days)
	if err != nil {
		return err
	}

	if len(mous) == 0 {
		fmt.Fprintln(a.out, "No MoUs expiring in this window")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-11s %s\n", "REFERENCE", "EXPIRES", "TITLE")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────")
	for _, m := range mous {
		fmt.Fprintf(a.out, "%-20s %-11s %s\n", m.ReferenceNumber, m.ExpiryDate.Format(dateLayout), m.Title)
	}
	fmt.Fprintln(a.out)
	return nil
}

// DueDeliverables lists deliverables due within the given number of days.
func (a *MoUAdapter) DueDeliverables(ctx context.Context, days int) error {
	due, err := a.service.ListDeliverablesDue(ctx, days)
	if err != nil {
		return err
	}

	if len(due) == 0 {
		fmt.Fprintln(a.out, "No deliverables due in this window")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-11s %-20s %s\n", "DUE", "MOU", "DELIVERABLE")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────")
	for _, d := range due {
		fmt.Fprintf(a.out, "%-11s %-20s %s\n",
			d.Deliverable.DueDate.Format(dateLayout), d.MoUReference, d.Deliverable.Title)
	}
	fmt.Fprintln(a.out)
	return nil
}

// ExpireOverdue sweeps active MoUs past their expiry date.
func (a *MoUAdapter) ExpireOverdue(ctx context.Context) error {
	expired, err := a.service.ExpireOverdue(ctx)
	if err != nil {
		return err
	}

	if len(expired) == 0 {
		fmt.Fprintln(a.out, "No overdue MoUs")
		return nil
	}
	fmt.Fprintf(a.out, "✓ Expired %d MoU(s): %s\n", len(expired), strings.Join(expired, ", "))
	return nil
}

// statusColor picks the terminal color for a lifecycle status.
func statusColor(s mou.Status) *color.Color {
	switch s {
	case mou.StatusActive:
		return color.New(color.FgGreen)
	case mou.StatusSigned, mou.StatusRenewed:
		return color.New(color.FgCyan)
	case mou.StatusExpired, mou.StatusTerminated:
		return color.New(color.FgRed)
	case mou.StatusNegotiation:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

// parseParties parses type:id:role specs into party entries.
func parseParties(specs []string) ([]mou.Party, error) {
	parties := make([]mou.Party, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid party spec %q, want type:id:role", spec)
		}
		parties = append(parties, mou.Party{
			PartyType: mou.PartyType(parts[0]),
			PartyID:   parts[1],
			Role:      mou.PartyRole(parts[2]),
		})
	}
	return parties, nil
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(value, label string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q, want YYYY-MM-DD", label, value)
	}
	return &t, nil
}

func printDate(out io.Writer, label string, t *time.Time) {
	if t == nil {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", label, t.Format(dateLayout))
}
