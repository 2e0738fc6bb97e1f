// Package app implements the primary ports by orchestrating the functional
// core against the secondary ports. Every mutating operation follows
// load -> validate (core) -> mutate -> persist -> audit.
package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/ctxutil"
	"github.com/example/accord/internal/ports/primary"
	"github.com/example/accord/internal/ports/secondary"
)

// Default windows for the due/expiring listings.
const (
	defaultExpiringDays       = 90
	defaultDeliverableDueDays = 30
)

// MoUServiceImpl implements the MoUService interface.
type MoUServiceImpl struct {
	repo     secondary.MoURepository
	audit    secondary.AuditLog
	jobs     secondary.JobScheduler
	notify   secondary.NotificationHook
	settings mou.AlertSettings

	now   func() time.Time
	newID func() string
}

// NewMoUService creates a new MoUService with injected dependencies.
func NewMoUService(
	repo secondary.MoURepository,
	audit secondary.AuditLog,
	jobs secondary.JobScheduler,
	notify secondary.NotificationHook,
	settings mou.AlertSettings,
) *MoUServiceImpl {
	return &MoUServiceImpl{
		repo:     repo,
		audit:    audit,
		jobs:     jobs,
		notify:   notify,
		settings: settings,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateMoU creates a new MoU with a generated reference number.
func (s *MoUServiceImpl) CreateMoU(ctx context.Context, req primary.CreateMoURequest) (*mou.MoU, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", mou.ErrValidation)
	}
	if !mou.ValidType(req.Type) {
		return nil, fmt.Errorf("%w: unknown MoU type %q", mou.ErrValidation, req.Type)
	}
	if len(req.Parties) < 2 {
		return nil, fmt.Errorf("%w: an MoU requires at least 2 parties, got %d", mou.ErrValidation, len(req.Parties))
	}
	status := req.Status
	if status == "" {
		status = mou.InitialStatus()
	}
	if !mou.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", mou.ErrValidation, status)
	}

	now := s.now().UTC()
	deliverables := make([]mou.Deliverable, len(req.Deliverables))
	copy(deliverables, req.Deliverables)
	for i := range deliverables {
		if deliverables[i].ID == "" {
			deliverables[i].ID = s.newID()
		}
		if deliverables[i].Status == "" {
			deliverables[i].Status = mou.DeliverablePending
		}
	}

	count, err := s.repo.CountCreatedInYear(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to count MoUs for sequencing: %w", err)
	}

	m := &mou.MoU{
		ID:                 s.newID(),
		ReferenceNumber:    mou.GenerateReferenceNumber(req.Type, now.Year(), count+1),
		Title:              req.Title,
		Type:               req.Type,
		Status:             status,
		Parties:            req.Parties,
		ThematicAreas:      req.ThematicAreas,
		SignDate:           req.SignDate,
		EffectiveDate:      req.EffectiveDate,
		ExpiryDate:         req.ExpiryDate,
		AutoRenewal:        req.AutoRenewal,
		RenewalNoticeDays:  req.RenewalNoticeDays,
		Deliverables:       deliverables,
		PerformanceMetrics: req.PerformanceMetrics,
		Documents:          req.Documents,
		Notes:              req.Notes,
		Metadata:           req.Metadata,
		CreatedBy:          ctxutil.ActorFromContext(ctx),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := m.ValidateDates(); err != nil {
		return nil, err
	}

	// An MoU born active with an expiry date gets its alert set up front.
	var fresh []mou.Alert
	if m.Status == mou.StatusActive && m.ExpiryDate != nil {
		*m, fresh = refreshAlerts(*m, s.settings)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create MoU: %w", err)
	}

	if err := s.recordAudit(ctx, m.ID, "create", map[string]any{
		"reference_number": m.ReferenceNumber,
		"status":           string(m.Status),
	}); err != nil {
		return nil, err
	}
	if err := s.enqueueAlertJobs(ctx, m, fresh); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMoU retrieves an MoU by ID.
func (s *MoUServiceImpl) GetMoU(ctx context.Context, id string) (*mou.MoU, error) {
	return s.repo.GetByID(ctx, id)
}

// ListMoUs lists MoUs with optional filters.
func (s *MoUServiceImpl) ListMoUs(ctx context.Context, filters primary.MoUFilters) ([]*mou.MoU, error) {
	return s.repo.List(ctx, secondary.MoUFilters{
		Status: filters.Status,
		Type:   filters.Type,
		Limit:  filters.Limit,
	})
}

// UpdateMoU applies a partial update of descriptive fields and dates.
func (s *MoUServiceImpl) UpdateMoU(ctx context.Context, req primary.UpdateMoURequest) (*mou.MoU, error) {
	m, err := s.repo.GetByID(ctx, req.MoUID)
	if err != nil {
		return nil, err
	}

	updated := *m
	var changed []string
	if req.Title != nil {
		updated.Title = *req.Title
		changed = append(changed, "title")
	}
	if req.ThematicAreas != nil {
		updated.ThematicAreas = req.ThematicAreas
		changed = append(changed, "thematic_areas")
	}
	if req.SignDate != nil {
		updated.SignDate = req.SignDate
		changed = append(changed, "sign_date")
	}
	if req.EffectiveDate != nil {
		updated.EffectiveDate = req.EffectiveDate
		changed = append(changed, "effective_date")
	}
	if req.ExpiryDate != nil {
		updated.ExpiryDate = req.ExpiryDate
		changed = append(changed, "expiry_date")
	}
	if req.AutoRenewal != nil {
		updated.AutoRenewal = *req.AutoRenewal
		changed = append(changed, "auto_renewal")
	}
	if req.RenewalNoticeDays != nil {
		updated.RenewalNoticeDays = req.RenewalNoticeDays
		changed = append(changed, "renewal_notice_days")
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
		changed = append(changed, "notes")
	}
	if len(changed) == 0 {
		return m, nil
	}
	if err := updated.ValidateDates(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.now().UTC()

	// Date changes shift the alert schedule.
	var fresh []mou.Alert
	if req.ExpiryDate != nil || req.EffectiveDate != nil {
		updated, fresh = refreshAlerts(updated, s.settings)
	}

	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save MoU: %w", err)
	}
	if err := s.recordAudit(ctx, updated.ID, "update", map[string]any{"fields": changed}); err != nil {
		return nil, err
	}
	if err := s.enqueueAlertJobs(ctx, &updated, fresh); err != nil {
		return nil, err
	}
	return &updated, nil
}

// TransitionStatus moves the MoU through the lifecycle state machine.
func (s *MoUServiceImpl) TransitionStatus(ctx context.Context, id string, to mou.Status) (*mou.MoU, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := m.Status

	updated, err := mou.ApplyTransition(*m, to, s.now().UTC())
	if err != nil {
		return nil, err
	}

	// Becoming active (or expiring) changes which alerts should exist.
	var fresh []mou.Alert
	if to == mou.StatusActive || to == mou.StatusExpired {
		updated, fresh = refreshAlerts(updated, s.settings)
	}

	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save MoU: %w", err)
	}
	if err := s.recordAudit(ctx, updated.ID, "status_change", map[string]any{
		"from": string(from),
		"to":   string(to),
	}); err != nil {
		return nil, err
	}
	if err := s.enqueueAlertJobs(ctx, &updated, fresh); err != nil {
		return nil, err
	}
	if mou.IsSignificant(to) {
		if err := s.notify.OnSignificantTransition(ctx, &updated, from, to); err != nil {
			return nil, fmt.Errorf("transition notification failed: %w", err)
		}
	}
	return &updated, nil
}

// AddDeliverable appends a new deliverable to the MoU.
func (s *MoUServiceImpl) AddDeliverable(ctx context.Context, mouID string, d mou.Deliverable) (*mou.MoU, error) {
	if d.Title == "" {
		return nil, fmt.Errorf("%w: deliverable title is required", mou.ErrValidation)
	}
	m, err := s.repo.GetByID(ctx, mouID)
	if err != nil {
		return nil, err
	}
	if d.ID == "" {
		d.ID = s.newID()
	}
	if d.Status == "" {
		d.Status = mou.DeliverablePending
	}

	updated := *m
	updated.Deliverables = append(append([]mou.Deliverable(nil), m.Deliverables...), d)
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save MoU: %w", err)
	}
	if err := s.recordAudit(ctx, updated.ID, "deliverable_add", map[string]any{"deliverable_id": d.ID}); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateDeliverable merges a partial patch into one deliverable.
func (s *MoUServiceImpl) UpdateDeliverable(ctx context.Context, mouID, deliverableID string, patch mou.DeliverablePatch) (*mou.MoU, error) {
	m, err := s.repo.GetByID(ctx, mouID)
	if err != nil {
		return nil, err
	}

	updated, allCompleted, err := mou.ApplyDeliverablePatch(*m, deliverableID, patch, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save MoU: %w", err)
	}
	if err := s.recordAudit(ctx, updated.ID, "deliverable_update", map[string]any{"deliverable_id": deliverableID}); err != nil {
		return nil, err
	}
	if allCompleted {
		if err := s.notify.OnAllDeliverablesCompleted(ctx, &updated); err != nil {
			return nil, fmt.Errorf("deliverables-completed notification failed: %w", err)
		}
	}
	return &updated, nil
}

// ComputePerformance returns the weighted performance breakdown.
func (s *MoUServiceImpl) ComputePerformance(ctx context.Context, id string) (mou.Performance, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mou.Performance{}, err
	}
	return mou.Score(*m), nil
}

// RecalculateAlerts recomputes the alert set, persists it and enqueues
// dispatch jobs for alerts that did not exist before.
func (s *MoUServiceImpl) RecalculateAlerts(ctx context.Context, id string) (*mou.MoU, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, fresh := refreshAlerts(*m, s.settings)
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save MoU: %w", err)
	}
	if err := s.enqueueAlertJobs(ctx, &updated, fresh); err != nil {
		return nil, err
	}
	return &updated, nil
}

// MarkAlertSent flips the sent flag on the alert identified by type and date.
func (s *MoUServiceImpl) MarkAlertSent(ctx context.Context, mouID string, alertType mou.AlertType, date time.Time) (*mou.MoU, error) {
	m, err := s.repo.GetByID(ctx, mouID)
	if err != nil {
		return nil, err
	}

	updated := *m
	updated.Alerts = append([]mou.Alert(nil), m.Alerts...)
	found := false
	for i := range updated.Alerts {
		if updated.Alerts[i].Type == alertType && updated.Alerts[i].Date.Equal(date) {
			updated.Alerts[i].Sent = true
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: alert %s at %s", mou.ErrNotFound, alertType, date.Format(time.RFC3339))
	}
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save MoU: %w", err)
	}
	return &updated, nil
}

// ListExpiring returns active or signed MoUs expiring within the window.
func (s *MoUServiceImpl) ListExpiring(ctx context.Context, days int) ([]*mou.MoU, error) {
	if days <= 0 {
		days = defaultExpiringDays
	}
	now := s.now().UTC()
	return s.repo.ListExpiring(ctx, now, now.AddDate(0, 0, days))
}

// ListDeliverablesDue returns non-completed deliverables across active MoUs
// due within the window, sorted by due date.
func (s *MoUServiceImpl) ListDeliverablesDue(ctx context.Context, days int) ([]primary.DeliverableDue, error) {
	if days <= 0 {
		days = defaultDeliverableDueDays
	}
	now := s.now().UTC()
	until := now.AddDate(0, 0, days)

	active, err := s.repo.List(ctx, secondary.MoUFilters{Status: mou.StatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list active MoUs: %w", err)
	}

	var due []primary.DeliverableDue
	for _, m := range active {
		for _, d := range m.Deliverables {
			if d.Status == mou.DeliverableCompleted || d.DueDate == nil {
				continue
			}
			if d.DueDate.Before(now) || d.DueDate.After(until) {
				continue
			}
			due = append(due, primary.DeliverableDue{
				MoUID:        m.ID,
				MoUReference: m.ReferenceNumber,
				MoUTitle:     m.Title,
				Deliverable:  d,
			})
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].Deliverable.DueDate.Before(*due[j].Deliverable.DueDate)
	})
	return due, nil
}

// ExpireOverdue transitions active MoUs whose expiry date has passed.
func (s *MoUServiceImpl) ExpireOverdue(ctx context.Context) ([]string, error) {
	now := s.now().UTC()
	candidates, err := s.repo.ListExpiring(ctx, time.Time{}, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue MoUs: %w", err)
	}

	var expired []string
	for _, m := range candidates {
		if m.Status != mou.StatusActive {
			continue
		}
		if _, err := s.TransitionStatus(ctx, m.ID, mou.StatusExpired); err != nil {
			return expired, fmt.Errorf("failed to expire %s: %w", m.ID, err)
		}
		expired = append(expired, m.ID)
	}
	return expired, nil
}

// Helper methods

// refreshAlerts recomputes the alert set for the aggregate, carrying sent
// flags over for unchanged alerts, and returns the alerts that are new
// relative to the stored set.
func refreshAlerts(m mou.MoU, settings mou.AlertSettings) (mou.MoU, []mou.Alert) {
	stored := m.Alerts
	merged := mou.MergeAlerts(stored, mou.ComputeAlerts(m, settings))

	var fresh []mou.Alert
	for _, a := range merged {
		known := false
		for _, old := range stored {
			if mou.SameAlert(old, a) {
				known = true
				break
			}
		}
		if !known {
			fresh = append(fresh, a)
		}
	}
	m.Alerts = merged
	return m, fresh
}

func (s *MoUServiceImpl) recordAudit(ctx context.Context, mouID, action string, changes map[string]any) error {
	err := s.audit.Record(ctx, "mou", mouID, action, changes, ctxutil.ActorFromContext(ctx), s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

func (s *MoUServiceImpl) enqueueAlertJobs(ctx context.Context, m *mou.MoU, fresh []mou.Alert) error {
	for _, a := range fresh {
		payload := map[string]any{
			"mou_id":           m.ID,
			"reference_number": m.ReferenceNumber,
			"alert_type":       string(a.Type),
			"days_before":      a.DaysBefore,
			"recipients":       a.Recipients,
		}
		if err := s.jobs.Enqueue(ctx, secondary.JobAlertDispatch, payload, a.Date); err != nil {
			return fmt.Errorf("failed to enqueue alert job: %w", err)
		}
	}
	return nil
}

// Ensure MoUServiceImpl implements the interface
var _ primary.MoUService = (*MoUServiceImpl)(nil)
