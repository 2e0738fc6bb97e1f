package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/core/renewal"
	"github.com/example/accord/internal/ctxutil"
	"github.com/example/accord/internal/ports/primary"
	"github.com/example/accord/internal/ports/secondary"
)

// RenewalServiceImpl implements the RenewalService interface.
type RenewalServiceImpl struct {
	renewals secondary.RenewalRepository
	mous     secondary.MoURepository
	audit    secondary.AuditLog

	now   func() time.Time
	newID func() string
}

// NewRenewalService creates a new RenewalService with injected dependencies.
func NewRenewalService(
	renewals secondary.RenewalRepository,
	mous secondary.MoURepository,
	audit secondary.AuditLog,
) *RenewalServiceImpl {
	return &RenewalServiceImpl{
		renewals: renewals,
		mous:     mous,
		audit:    audit,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Initiate opens a renewal process for an active or expired MoU.
func (s *RenewalServiceImpl) Initiate(ctx context.Context, req primary.InitiateRenewalRequest) (*primary.Renewal, error) {
	m, err := s.mous.GetByID(ctx, req.MoUID)
	if err != nil {
		return nil, err
	}
	if !renewal.CanInitiateFor(m.Status) {
		return nil, fmt.Errorf("%w: cannot renew an MoU in status %s", mou.ErrValidation, m.Status)
	}
	if req.ProposedExpiryDate != "" {
		if _, err := time.Parse(time.RFC3339, req.ProposedExpiryDate); err != nil {
			return nil, fmt.Errorf("%w: invalid proposed expiry date: %v", mou.ErrValidation, err)
		}
	}

	open, err := s.renewals.OpenExists(ctx, req.MoUID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open renewals: %w", err)
	}
	if open {
		return nil, fmt.Errorf("%w: MoU %s already has an open renewal", mou.ErrConflict, req.MoUID)
	}

	now := s.now().UTC().Format(time.RFC3339)
	record := &secondary.RenewalRecord{
		ID:                  s.newID(),
		MoUID:               req.MoUID,
		Status:              renewal.InitialStatus(),
		ProposedExpiryDate:  req.ProposedExpiryDate,
		RenewalPeriodMonths: req.RenewalPeriodMonths,
		Notes:               req.Notes,
		InitiatedBy:         ctxutil.ActorFromContext(ctx),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.renewals.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create renewal: %w", err)
	}

	if err := s.recordAudit(ctx, record.ID, "renewal_initiated", map[string]any{
		"mou_id": req.MoUID,
	}); err != nil {
		return nil, err
	}
	return recordToRenewal(record), nil
}

// UpdateStatus moves the renewal through its workflow graph.
func (s *RenewalServiceImpl) UpdateStatus(ctx context.Context, req primary.UpdateRenewalStatusRequest) (*primary.Renewal, error) {
	record, err := s.renewals.GetByID(ctx, req.RenewalID)
	if err != nil {
		return nil, err
	}
	from := record.Status

	if err := renewal.ValidateTransition(from, req.NewStatus); err != nil {
		return nil, err
	}
	if req.NewStatus == renewal.StatusDeclined && req.DeclineReason == "" {
		return nil, fmt.Errorf("%w: declining a renewal requires a reason", mou.ErrValidation)
	}

	record.Status = req.NewStatus
	if req.Notes != "" {
		record.Notes = req.Notes
	}
	if req.DeclineReason != "" {
		record.DeclineReason = req.DeclineReason
	}
	record.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	if err := s.renewals.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update renewal: %w", err)
	}

	if err := s.recordAudit(ctx, record.ID, "renewal_status_change", map[string]any{
		"from": string(from),
		"to":   string(req.NewStatus),
	}); err != nil {
		return nil, err
	}
	return recordToRenewal(record), nil
}

// Complete closes a signed renewal, linking the successor MoU and moving the
// original to renewed.
func (s *RenewalServiceImpl) Complete(ctx context.Context, req primary.CompleteRenewalRequest) (*primary.Renewal, error) {
	record, err := s.renewals.GetByID(ctx, req.RenewalID)
	if err != nil {
		return nil, err
	}
	if err := renewal.ValidateTransition(record.Status, renewal.StatusCompleted); err != nil {
		return nil, err
	}

	// Both sides must exist before anything is written.
	if _, err := s.mous.GetByID(ctx, req.NewMoUID); err != nil {
		return nil, fmt.Errorf("successor MoU: %w", err)
	}
	original, err := s.mous.GetByID(ctx, record.MoUID)
	if err != nil {
		return nil, fmt.Errorf("original MoU: %w", err)
	}

	now := s.now().UTC()
	updated, err := mou.ApplyTransition(*original, mou.StatusRenewed, now)
	if err != nil {
		return nil, err
	}
	if err := s.mous.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save original MoU: %w", err)
	}

	record.Status = renewal.StatusCompleted
	record.RenewedMoUID = req.NewMoUID
	record.UpdatedAt = now.Format(time.RFC3339)
	if err := s.renewals.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update renewal: %w", err)
	}

	if err := s.recordAudit(ctx, record.ID, "renewal_completed", map[string]any{
		"mou_id":         record.MoUID,
		"renewed_mou_id": req.NewMoUID,
	}); err != nil {
		return nil, err
	}
	return recordToRenewal(record), nil
}

// GetRenewal retrieves a renewal by ID.
func (s *RenewalServiceImpl) GetRenewal(ctx context.Context, id string) (*primary.Renewal, error) {
	record, err := s.renewals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToRenewal(record), nil
}

// ListByMoU lists the renewal history of an MoU, newest first.
func (s *RenewalServiceImpl) ListByMoU(ctx context.Context, mouID string) ([]*primary.Renewal, error) {
	records, err := s.renewals.ListByMoU(ctx, mouID)
	if err != nil {
		return nil, err
	}
	renewals := make([]*primary.Renewal, len(records))
	for i, r := range records {
		renewals[i] = recordToRenewal(r)
	}
	return renewals, nil
}

func (s *RenewalServiceImpl) recordAudit(ctx context.Context, renewalID, action string, changes map[string]any) error {
	err := s.audit.Record(ctx, "renewal", renewalID, action, changes, ctxutil.ActorFromContext(ctx), s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// recordToRenewal converts a storage record to the port-level DTO.
func recordToRenewal(r *secondary.RenewalRecord) *primary.Renewal {
	return &primary.Renewal{
		ID:                  r.ID,
		MoUID:               r.MoUID,
		Status:              r.Status,
		ProposedExpiryDate:  r.ProposedExpiryDate,
		RenewalPeriodMonths: r.RenewalPeriodMonths,
		RenewedMoUID:        r.RenewedMoUID,
		Notes:               r.Notes,
		DeclineReason:       r.DeclineReason,
		InitiatedBy:         r.InitiatedBy,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// Ensure RenewalServiceImpl implements the interface
var _ primary.RenewalService = (*RenewalServiceImpl)(nil)
