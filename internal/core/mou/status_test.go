package mou

import (
	"errors"
	"testing"
	"time"
)

var allStatuses = []Status{
	StatusDraft, StatusNegotiation, StatusSigned, StatusActive,
	StatusExpired, StatusTerminated, StatusRenewed,
}

func TestValidate_LegalTransitions(t *testing.T) {
	tests := []struct {
		from           Status
		to             Status
		requiredFields []string
	}{
		{StatusDraft, StatusNegotiation, nil},
		{StatusDraft, StatusTerminated, nil},
		{StatusNegotiation, StatusSigned, []string{"sign_date", "parties"}},
		{StatusNegotiation, StatusDraft, nil},
		{StatusNegotiation, StatusTerminated, nil},
		{StatusSigned, StatusActive, []string{"effective_date"}},
		{StatusSigned, StatusTerminated, nil},
		{StatusActive, StatusExpired, nil},
		{StatusActive, StatusRenewed, nil},
		{StatusActive, StatusTerminated, nil},
		{StatusExpired, StatusRenewed, nil},
		{StatusExpired, StatusTerminated, nil},
		{StatusRenewed, StatusActive, nil},
	}

	legal := make(map[Status]map[Status]bool)
	for _, tt := range tests {
		rule := Validate(tt.from, tt.to)
		if !rule.Allowed {
			t.Errorf("Validate(%s, %s).Allowed = false, want true", tt.from, tt.to)
		}
		if len(rule.RequiredFields) != len(tt.requiredFields) {
			t.Errorf("Validate(%s, %s).RequiredFields = %v, want %v", tt.from, tt.to, rule.RequiredFields, tt.requiredFields)
		}
		for i, f := range tt.requiredFields {
			if rule.RequiredFields[i] != f {
				t.Errorf("Validate(%s, %s).RequiredFields[%d] = %q, want %q", tt.from, tt.to, i, rule.RequiredFields[i], f)
			}
		}
		if legal[tt.from] == nil {
			legal[tt.from] = make(map[Status]bool)
		}
		legal[tt.from][tt.to] = true
	}

	// Every pair not in the table must be rejected, self-loops included.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if legal[from][to] {
				continue
			}
			if rule := Validate(from, to); rule.Allowed {
				t.Errorf("Validate(%s, %s).Allowed = true, want false", from, to)
			}
		}
	}
}

func TestValidate_UnknownStatus(t *testing.T) {
	if rule := Validate(Status("bogus"), StatusActive); rule.Allowed {
		t.Error("Validate with unknown from status should not be allowed")
	}
	if rule := Validate(StatusDraft, Status("bogus")); rule.Allowed {
		t.Error("Validate with unknown to status should not be allowed")
	}
}

func TestApplyTransition_MissingRequiredField(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m := MoU{
		Status: StatusNegotiation,
		Parties: []Party{
			{PartyType: PartyCountry, PartyID: "SA", Role: RolePrimary},
			{PartyType: PartyOrganization, PartyID: "WHO", Role: RoleSecondary},
		},
	}

	// sign_date is unset, so negotiation -> signed must fail atomically.
	_, err := ApplyTransition(m, StatusSigned, now)
	if !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("ApplyTransition error = %v, want ErrMissingRequiredField", err)
	}
	if m.Status != StatusNegotiation {
		t.Errorf("status changed to %s on rejected transition", m.Status)
	}
}

func TestApplyTransition_DraftToSignedRejected(t *testing.T) {
	now := time.Now()
	signDate := now.AddDate(0, 0, -1)

	m := MoU{Status: StatusDraft, SignDate: &signDate, Parties: twoParties()}
	_, err := ApplyTransition(m, StatusSigned, now)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ApplyTransition(draft -> signed) error = %v, want ErrInvalidTransition", err)
	}
}

func TestApplyTransition_ActiveDefaultsEffectiveDate(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

	m := MoU{Status: StatusSigned}
	if _, err := ApplyTransition(m, StatusActive, now); !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("signed -> active without effective_date should fail, got %v", err)
	}

	effective := now.AddDate(0, 0, -5)
	m.EffectiveDate = &effective
	got, err := ApplyTransition(m, StatusActive, now)
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if got.Status != StatusActive {
		t.Errorf("status = %s, want active", got.Status)
	}
	if !got.EffectiveDate.Equal(effective) {
		t.Errorf("effective_date overwritten: got %v, want %v", got.EffectiveDate, effective)
	}

	// renewed -> active has no required fields; effective_date defaults to now.
	renewed := MoU{Status: StatusRenewed}
	got, err = ApplyTransition(renewed, StatusActive, now)
	if err != nil {
		t.Fatalf("ApplyTransition(renewed -> active) failed: %v", err)
	}
	if got.EffectiveDate == nil || !got.EffectiveDate.Equal(now) {
		t.Errorf("effective_date = %v, want defaulted to %v", got.EffectiveDate, now)
	}
}

func TestApplyTransition_ExpiredDefaultsExpiryDate(t *testing.T) {
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	m := MoU{Status: StatusActive}
	got, err := ApplyTransition(m, StatusExpired, now)
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if got.ExpiryDate == nil || !got.ExpiryDate.Equal(now) {
		t.Errorf("expiry_date = %v, want defaulted to %v", got.ExpiryDate, now)
	}

	// An existing expiry_date is preserved.
	expiry := now.AddDate(0, 0, -3)
	m.ExpiryDate = &expiry
	got, err = ApplyTransition(m, StatusExpired, now)
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if !got.ExpiryDate.Equal(expiry) {
		t.Errorf("expiry_date overwritten: got %v, want %v", got.ExpiryDate, expiry)
	}
}

func TestIsSignificant(t *testing.T) {
	significant := map[Status]bool{
		StatusSigned:     true,
		StatusActive:     true,
		StatusExpired:    true,
		StatusTerminated: true,
	}
	for _, s := range allStatuses {
		if got := IsSignificant(s); got != significant[s] {
			t.Errorf("IsSignificant(%s) = %v, want %v", s, got, significant[s])
		}
	}
}

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(); got != StatusDraft {
		t.Errorf("InitialStatus() = %q, want %q", got, StatusDraft)
	}
}

func twoParties() []Party {
	return []Party{
		{PartyType: PartyCountry, PartyID: "SA", Role: RolePrimary},
		{PartyType: PartyCountry, PartyID: "JO", Role: RoleSecondary},
	}
}
