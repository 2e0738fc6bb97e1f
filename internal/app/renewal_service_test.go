package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/core/renewal"
	"github.com/example/accord/internal/ctxutil"
	"github.com/example/accord/internal/ports/primary"
	"github.com/example/accord/internal/ports/secondary"
)

// mockRenewalRepository implements secondary.RenewalRepository for testing.
type mockRenewalRepository struct {
	renewals  map[string]*secondary.RenewalRecord
	createErr error
	updateErr error
}

func newMockRenewalRepository() *mockRenewalRepository {
	return &mockRenewalRepository{renewals: make(map[string]*secondary.RenewalRecord)}
}

func (m *mockRenewalRepository) Create(ctx context.Context, r *secondary.RenewalRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	clone := *r
	m.renewals[r.ID] = &clone
	return nil
}

func (m *mockRenewalRepository) GetByID(ctx context.Context, id string) (*secondary.RenewalRecord, error) {
	if r, ok := m.renewals[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, fmt.Errorf("%w: renewal %s", mou.ErrNotFound, id)
}

func (m *mockRenewalRepository) Update(ctx context.Context, r *secondary.RenewalRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.renewals[r.ID]; !ok {
		return fmt.Errorf("%w: renewal %s", mou.ErrNotFound, r.ID)
	}
	clone := *r
	m.renewals[r.ID] = &clone
	return nil
}

func (m *mockRenewalRepository) ListByMoU(ctx context.Context, mouID string) ([]*secondary.RenewalRecord, error) {
	var result []*secondary.RenewalRecord
	for _, r := range m.renewals {
		if r.MoUID == mouID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	return result, nil
}

func (m *mockRenewalRepository) OpenExists(ctx context.Context, mouID string) (bool, error) {
	for _, r := range m.renewals {
		if r.MoUID == mouID && !renewal.Terminal(r.Status) {
			return true, nil
		}
	}
	return false, nil
}

func newTestRenewalService() (*RenewalServiceImpl, *mockRenewalRepository, *mockMoURepository, *mockAuditLog) {
	renewals := newMockRenewalRepository()
	mous := newMockMoURepository()
	audit := newMockAuditLog()

	service := NewRenewalService(renewals, mous, audit)
	service.now = func() time.Time { return testNow }
	seq := 0
	service.newID = func() string {
		seq++
		return fmt.Sprintf("ren-%03d", seq)
	}
	return service, renewals, mous, audit
}

// ============================================================================
// Initiate Tests
// ============================================================================

func TestInitiateRenewal(t *testing.T) {
	service, renewals, mous, audit := newTestRenewalService()
	ctx := ctxutil.WithActorID(context.Background(), "user-7")

	mous.mous["m1"] = activeMoU("m1")

	r, err := service.Initiate(ctx, primary.InitiateRenewalRequest{
		MoUID:               "m1",
		RenewalPeriodMonths: 24,
		Notes:               "extend for two more years",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if r.Status != renewal.StatusInitiated {
		t.Errorf("expected initiated status, got %s", r.Status)
	}
	if r.InitiatedBy != "user-7" {
		t.Errorf("expected initiator user-7, got %q", r.InitiatedBy)
	}
	if _, ok := renewals.renewals[r.ID]; !ok {
		t.Error("expected renewal to be persisted")
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "renewal_initiated" {
		t.Fatalf("expected renewal_initiated audit entry, got %+v", audit.entries)
	}
	if audit.entries[0].entityType != "renewal" {
		t.Errorf("expected renewal entity type, got %s", audit.entries[0].entityType)
	}
}

func TestInitiateRenewal_ExpiredMoUAllowed(t *testing.T) {
	service, _, mous, _ := newTestRenewalService()

	m := activeMoU("m1")
	m.Status = mou.StatusExpired
	mous.mous["m1"] = m

	if _, err := service.Initiate(context.Background(), primary.InitiateRenewalRequest{MoUID: "m1"}); err != nil {
		t.Fatalf("expected no error for expired MoU, got %v", err)
	}
}

func TestInitiateRenewal_DraftMoURejected(t *testing.T) {
	service, _, mous, _ := newTestRenewalService()

	mous.mous["m1"] = &mou.MoU{ID: "m1", Status: mou.StatusDraft}

	_, err := service.Initiate(context.Background(), primary.InitiateRenewalRequest{MoUID: "m1"})
	if !errors.Is(err, mou.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestInitiateRenewal_OpenRenewalConflicts(t *testing.T) {
	service, renewals, mous, _ := newTestRenewalService()
	ctx := context.Background()

	mous.mous["m1"] = activeMoU("m1")
	renewals.renewals["existing"] = &secondary.RenewalRecord{
		ID:     "existing",
		MoUID:  "m1",
		Status: renewal.StatusNegotiation,
	}

	_, err := service.Initiate(ctx, primary.InitiateRenewalRequest{MoUID: "m1"})
	if !errors.Is(err, mou.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestInitiateRenewal_TerminalRenewalDoesNotBlock(t *testing.T) {
	service, renewals, mous, _ := newTestRenewalService()
	ctx := context.Background()

	mous.mous["m1"] = activeMoU("m1")
	renewals.renewals["declined"] = &secondary.RenewalRecord{
		ID:     "declined",
		MoUID:  "m1",
		Status: renewal.StatusDeclined,
	}

	if _, err := service.Initiate(ctx, primary.InitiateRenewalRequest{MoUID: "m1"}); err != nil {
		t.Fatalf("expected no error after a declined renewal, got %v", err)
	}
}

func TestInitiateRenewal_BadProposedDate(t *testing.T) {
	service, _, mous, _ := newTestRenewalService()

	mous.mous["m1"] = activeMoU("m1")

	_, err := service.Initiate(context.Background(), primary.InitiateRenewalRequest{
		MoUID:              "m1",
		ProposedExpiryDate: "next summer",
	})
	if !errors.Is(err, mou.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestInitiateRenewal_MoUNotFound(t *testing.T) {
	service, _, _, _ := newTestRenewalService()

	_, err := service.Initiate(context.Background(), primary.InitiateRenewalRequest{MoUID: "ghost"})
	if !errors.Is(err, mou.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================================
// UpdateStatus Tests
// ============================================================================

func TestUpdateRenewalStatus_WalksTheGraph(t *testing.T) {
	service, renewals, _, audit := newTestRenewalService()
	ctx := context.Background()

	renewals.renewals["r1"] = &secondary.RenewalRecord{ID: "r1", MoUID: "m1", Status: renewal.StatusInitiated}

	steps := []renewal.Status{renewal.StatusNegotiation, renewal.StatusApproved, renewal.StatusSigned}
	for _, next := range steps {
		r, err := service.UpdateStatus(ctx, primary.UpdateRenewalStatusRequest{RenewalID: "r1", NewStatus: next})
		if err != nil {
			t.Fatalf("step to %s: expected no error, got %v", next, err)
		}
		if r.Status != next {
			t.Fatalf("expected %s, got %s", next, r.Status)
		}
	}
	if len(audit.entries) != len(steps) {
		t.Errorf("expected %d audit entries, got %d", len(steps), len(audit.entries))
	}
}

func TestUpdateRenewalStatus_IllegalJumpRejected(t *testing.T) {
	service, renewals, _, _ := newTestRenewalService()

	renewals.renewals["r1"] = &secondary.RenewalRecord{ID: "r1", MoUID: "m1", Status: renewal.StatusInitiated}

	_, err := service.UpdateStatus(context.Background(), primary.UpdateRenewalStatusRequest{
		RenewalID: "r1",
		NewStatus: renewal.StatusSigned,
	})
	if !errors.Is(err, mou.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateRenewalStatus_DeclineRequiresReason(t *testing.T) {
	service, renewals, _, _ := newTestRenewalService()
	ctx := context.Background()

	renewals.renewals["r1"] = &secondary.RenewalRecord{ID: "r1", MoUID: "m1", Status: renewal.StatusNegotiation}

	_, err := service.UpdateStatus(ctx, primary.UpdateRenewalStatusRequest{
		RenewalID: "r1",
		NewStatus: renewal.StatusDeclined,
	})
	if !errors.Is(err, mou.ErrValidation) {
		t.Fatalf("expected ErrValidation without a reason, got %v", err)
	}

	r, err := service.UpdateStatus(ctx, primary.UpdateRenewalStatusRequest{
		RenewalID:     "r1",
		NewStatus:     renewal.StatusDeclined,
		DeclineReason: "funding withdrawn",
	})
	if err != nil {
		t.Fatalf("expected no error with a reason, got %v", err)
	}
	if r.DeclineReason != "funding withdrawn" {
		t.Errorf("expected decline reason to be stored, got %q", r.DeclineReason)
	}
}

// ============================================================================
// Complete Tests
// ============================================================================

func TestCompleteRenewal(t *testing.T) {
	service, renewals, mous, audit := newTestRenewalService()
	ctx := context.Background()

	mous.mous["m1"] = activeMoU("m1")
	mous.mous["m2"] = &mou.MoU{ID: "m2", Status: mou.StatusSigned}
	renewals.renewals["r1"] = &secondary.RenewalRecord{ID: "r1", MoUID: "m1", Status: renewal.StatusSigned}

	r, err := service.Complete(ctx, primary.CompleteRenewalRequest{RenewalID: "r1", NewMoUID: "m2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if r.Status != renewal.StatusCompleted {
		t.Errorf("expected completed, got %s", r.Status)
	}
	if r.RenewedMoUID != "m2" {
		t.Errorf("expected successor link m2, got %q", r.RenewedMoUID)
	}
	if mous.mous["m1"].Status != mou.StatusRenewed {
		t.Errorf("expected original MoU renewed, got %s", mous.mous["m1"].Status)
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "renewal_completed" {
		t.Fatalf("expected renewal_completed audit entry, got %+v", audit.entries)
	}
}

func TestCompleteRenewal_RequiresSignedRenewal(t *testing.T) {
	service, renewals, mous, _ := newTestRenewalService()

	mous.mous["m1"] = activeMoU("m1")
	mous.mous["m2"] = &mou.MoU{ID: "m2", Status: mou.StatusSigned}
	renewals.renewals["r1"] = &secondary.RenewalRecord{ID: "r1", MoUID: "m1", Status: renewal.StatusNegotiation}

	_, err := service.Complete(context.Background(), primary.CompleteRenewalRequest{RenewalID: "r1", NewMoUID: "m2"})
	if !errors.Is(err, mou.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCompleteRenewal_MissingSuccessor(t *testing.T) {
	service, renewals, mous, _ := newTestRenewalService()

	mous.mous["m1"] = activeMoU("m1")
	renewals.renewals["r1"] = &secondary.RenewalRecord{ID: "r1", MoUID: "m1", Status: renewal.StatusSigned}

	_, err := service.Complete(context.Background(), primary.CompleteRenewalRequest{RenewalID: "r1", NewMoUID: "ghost"})
	if !errors.Is(err, mou.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if renewals.renewals["r1"].Status != renewal.StatusSigned {
		t.Error("renewal must stay signed when the successor is missing")
	}
}

// ============================================================================
// Query Tests
// ============================================================================

func TestListRenewalsByMoU(t *testing.T) {
	service, renewals, _, _ := newTestRenewalService()

	renewals.renewals["r1"] = &secondary.RenewalRecord{ID: "r1", MoUID: "m1", Status: renewal.StatusDeclined, CreatedAt: "2024-01-01T00:00:00Z"}
	renewals.renewals["r2"] = &secondary.RenewalRecord{ID: "r2", MoUID: "m1", Status: renewal.StatusInitiated, CreatedAt: "2025-01-01T00:00:00Z"}
	renewals.renewals["r3"] = &secondary.RenewalRecord{ID: "r3", MoUID: "other", Status: renewal.StatusInitiated, CreatedAt: "2025-02-01T00:00:00Z"}

	result, err := service.ListByMoU(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 renewals, got %d", len(result))
	}
	if result[0].ID != "r2" || result[1].ID != "r1" {
		t.Errorf("expected newest first, got %s then %s", result[0].ID, result[1].ID)
	}
}

func TestGetRenewal_NotFound(t *testing.T) {
	service, _, _, _ := newTestRenewalService()

	_, err := service.GetRenewal(context.Background(), "ghost")
	if !errors.Is(err, mou.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
