package mou

// Default alert offsets in days before the relevant date.
const (
	DefaultRenewalAlertDays     = 90
	DefaultDeliverableAlertDays = 30
	DefaultExpiryAlertDays      = 60
)

// AlertSettings carries the configurable day offsets and the recipient list
// applied to every computed alert. When Recipients is empty the MoU creator
// is used as the sole recipient.
type AlertSettings struct {
	RenewalAlertDays     int      `json:"renewal_alert_days"`
	DeliverableAlertDays int      `json:"deliverable_alert_days"`
	ExpiryAlertDays      int      `json:"expiry_alert_days"`
	Recipients           []string `json:"recipients,omitempty"`
}

// DefaultAlertSettings returns the 90/30/60 defaults.
func DefaultAlertSettings() AlertSettings {
	return AlertSettings{
		RenewalAlertDays:     DefaultRenewalAlertDays,
		DeliverableAlertDays: DefaultDeliverableAlertDays,
		ExpiryAlertDays:      DefaultExpiryAlertDays,
	}
}

// ComputeAlerts derives the alert set that should exist for the MoU snapshot.
// It only computes what should exist, never delivery: alerts dated in the
// past are still emitted and the job layer decides whether to fire or drop.
//
// Idempotent: the same MoU state always yields the same set (type, date,
// days_before, recipients), so the orchestrator can diff against stored
// alerts instead of duplicating them. Sent is always false here; preserving
// dispatch state across recomputation is the orchestrator's job.
func ComputeAlerts(m MoU, settings AlertSettings) []Alert {
	recipients := settings.Recipients
	if len(recipients) == 0 && m.CreatedBy != "" {
		recipients = []string{m.CreatedBy}
	}

	var alerts []Alert
	if m.Status == StatusActive && m.ExpiryDate != nil {
		alerts = append(alerts, Alert{
			Type:       AlertExpiry,
			Date:       m.ExpiryDate.AddDate(0, 0, -settings.ExpiryAlertDays),
			DaysBefore: settings.ExpiryAlertDays,
			Recipients: recipients,
		})
		if m.AutoRenewal {
			alerts = append(alerts, Alert{
				Type:       AlertRenewal,
				Date:       m.ExpiryDate.AddDate(0, 0, -settings.RenewalAlertDays),
				DaysBefore: settings.RenewalAlertDays,
				Recipients: recipients,
			})
		}
	}

	for _, d := range m.Deliverables {
		if d.Status == DeliverableCompleted || d.DueDate == nil {
			continue
		}
		alerts = append(alerts, Alert{
			Type:       AlertDeliverable,
			Date:       d.DueDate.AddDate(0, 0, -settings.DeliverableAlertDays),
			DaysBefore: settings.DeliverableAlertDays,
			Recipients: recipients,
		})
	}
	return alerts
}

// MergeAlerts reconciles a freshly computed alert set with the stored one,
// carrying the Sent flag over for alerts whose identity (type + date) is
// unchanged. The computed set defines membership and order.
func MergeAlerts(stored, computed []Alert) []Alert {
	merged := make([]Alert, len(computed))
	copy(merged, computed)
	for i := range merged {
		for _, old := range stored {
			if old.Type == merged[i].Type && old.Date.Equal(merged[i].Date) && old.Sent {
				merged[i].Sent = true
				break
			}
		}
	}
	return merged
}

// SameAlert reports whether two alerts share an identity for diffing.
func SameAlert(a, b Alert) bool {
	return a.Type == b.Type && a.Date.Equal(b.Date)
}
