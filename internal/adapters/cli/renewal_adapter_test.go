package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/core/renewal"
	"github.com/example/accord/internal/ports/primary"
)

// mockRenewalService implements primary.RenewalService for adapter testing.
type mockRenewalService struct {
	lastInitiate primary.InitiateRenewalRequest
	renewals     map[string]*primary.Renewal
	history      []*primary.Renewal
	err          error
}

func newMockRenewalService() *mockRenewalService {
	return &mockRenewalService{renewals: make(map[string]*primary.Renewal)}
}

func (m *mockRenewalService) Initiate(ctx context.Context, req primary.InitiateRenewalRequest) (*primary.Renewal, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastInitiate = req
	return &primary.Renewal{ID: "r-001", MoUID: req.MoUID, Status: renewal.StatusInitiated}, nil
}

func (m *mockRenewalService) UpdateStatus(ctx context.Context, req primary.UpdateRenewalStatusRequest) (*primary.Renewal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Renewal{ID: req.RenewalID, Status: req.NewStatus}, nil
}

func (m *mockRenewalService) Complete(ctx context.Context, req primary.CompleteRenewalRequest) (*primary.Renewal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Renewal{ID: req.RenewalID, MoUID: "m1", Status: renewal.StatusCompleted, RenewedMoUID: req.NewMoUID}, nil
}

func (m *mockRenewalService) GetRenewal(ctx context.Context, id string) (*primary.Renewal, error) {
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.renewals[id]; ok {
		return r, nil
	}
	return nil, mou.ErrNotFound
}

func (m *mockRenewalService) ListByMoU(ctx context.Context, mouID string) ([]*primary.Renewal, error) {
	return m.history, m.err
}

func TestRenewalAdapter_Initiate(t *testing.T) {
	service := newMockRenewalService()
	var buf bytes.Buffer
	adapter := NewRenewalAdapter(service, &buf)

	err := adapter.Initiate(context.Background(), "m1", "2027-06-01", 24, "two more years")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Renewal r-001 initiated") {
		t.Errorf("unexpected output: %q", buf.String())
	}
	if service.lastInitiate.ProposedExpiryDate != "2027-06-01T00:00:00Z" {
		t.Errorf("proposed date not normalized: %q", service.lastInitiate.ProposedExpiryDate)
	}
	if service.lastInitiate.RenewalPeriodMonths != 24 {
		t.Errorf("period not carried: %d", service.lastInitiate.RenewalPeriodMonths)
	}
}

func TestRenewalAdapter_InitiateBadDate(t *testing.T) {
	adapter := NewRenewalAdapter(newMockRenewalService(), &bytes.Buffer{})

	err := adapter.Initiate(context.Background(), "m1", "june 2027", 0, "")
	if err == nil || !strings.Contains(err.Error(), "proposed expiry") {
		t.Errorf("expected date error, got %v", err)
	}
}

func TestRenewalAdapter_UpdateStatus(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewRenewalAdapter(newMockRenewalService(), &buf)

	err := adapter.UpdateStatus(context.Background(), "r1", "negotiation", "", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "now negotiation") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRenewalAdapter_Complete(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewRenewalAdapter(newMockRenewalService(), &buf)

	if err := adapter.Complete(context.Background(), "r1", "m2"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "renewed into m2") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRenewalAdapter_ErrorPassesThrough(t *testing.T) {
	service := newMockRenewalService()
	service.err = mou.ErrConflict

	adapter := NewRenewalAdapter(service, &bytes.Buffer{})
	err := adapter.Initiate(context.Background(), "m1", "", 0, "")
	if !errors.Is(err, mou.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestRenewalAdapter_HistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewRenewalAdapter(newMockRenewalService(), &buf)

	if err := adapter.History(context.Background(), "m1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "No renewals") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
