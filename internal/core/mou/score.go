package mou

// Performance is the weighted scoring breakdown for an MoU snapshot.
// All components are percentages in [0, 100].
type Performance struct {
	DeliverablesCompletion float64 `json:"deliverables_completion"`
	OnTimeDelivery         float64 `json:"on_time_delivery"`
	MetricsAchievement     float64 `json:"metrics_achievement"`
	OverallScore           float64 `json:"overall_score"`
}

// Score weights per component.
const (
	weightCompletion = 0.4
	weightOnTime     = 0.3
	weightMetrics    = 0.3
)

// Score computes the performance breakdown from the MoU snapshot.
// Deterministic, no side effects. Empty collections score 0.
func Score(m MoU) Performance {
	var p Performance

	total := len(m.Deliverables)
	completed := 0
	onTime := 0
	for _, d := range m.Deliverables {
		if d.Status != DeliverableCompleted {
			continue
		}
		completed++
		if d.CompletionDate != nil && d.DueDate != nil && !d.CompletionDate.After(*d.DueDate) {
			onTime++
		}
	}
	if total > 0 {
		p.DeliverablesCompletion = float64(completed) / float64(total) * 100
	}
	if completed > 0 {
		p.OnTimeDelivery = float64(onTime) / float64(completed) * 100
	}

	achieved := 0
	for _, metric := range m.PerformanceMetrics {
		if metric.CurrentValue >= metric.TargetValue {
			achieved++
		}
	}
	if len(m.PerformanceMetrics) > 0 {
		p.MetricsAchievement = float64(achieved) / float64(len(m.PerformanceMetrics)) * 100
	}

	p.OverallScore = p.DeliverablesCompletion*weightCompletion +
		p.OnTimeDelivery*weightOnTime +
		p.MetricsAchievement*weightMetrics
	return p
}
