package mou

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestScore_Empty(t *testing.T) {
	p := Score(MoU{})
	if p.DeliverablesCompletion != 0 || p.OnTimeDelivery != 0 || p.MetricsAchievement != 0 || p.OverallScore != 0 {
		t.Errorf("empty MoU should score all zeros, got %+v", p)
	}
}

func TestScore_MixedDeliverables(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	onTime := due.AddDate(0, 0, -2)
	late := due.AddDate(0, 0, 10)

	// 3 deliverables, 2 completed (1 on time, 1 late), no metrics.
	m := MoU{
		Deliverables: []Deliverable{
			{ID: "d-1", Status: DeliverableCompleted, DueDate: &due, CompletionDate: &onTime},
			{ID: "d-2", Status: DeliverableCompleted, DueDate: &due, CompletionDate: &late},
			{ID: "d-3", Status: DeliverableInProgress, DueDate: &due},
		},
	}

	p := Score(m)
	if !almostEqual(p.DeliverablesCompletion, 66.67) {
		t.Errorf("deliverables_completion = %.2f, want 66.67", p.DeliverablesCompletion)
	}
	if !almostEqual(p.OnTimeDelivery, 50) {
		t.Errorf("on_time_delivery = %.2f, want 50", p.OnTimeDelivery)
	}
	if p.MetricsAchievement != 0 {
		t.Errorf("metrics_achievement = %.2f, want 0", p.MetricsAchievement)
	}
	if !almostEqual(p.OverallScore, 41.67) {
		t.Errorf("overall_score = %.2f, want 41.67", p.OverallScore)
	}
}

func TestScore_Metrics(t *testing.T) {
	m := MoU{
		PerformanceMetrics: []Metric{
			{MetricName: "joint exercises", TargetValue: 4, CurrentValue: 5},
			{MetricName: "trainees", TargetValue: 100, CurrentValue: 80},
			{MetricName: "reports", TargetValue: 2, CurrentValue: 2},
		},
	}
	p := Score(m)
	if !almostEqual(p.MetricsAchievement, 66.67) {
		t.Errorf("metrics_achievement = %.2f, want 66.67", p.MetricsAchievement)
	}
	if !almostEqual(p.OverallScore, 0.3*66.67) {
		t.Errorf("overall_score = %.2f, want %.2f", p.OverallScore, 0.3*66.67)
	}
}

func TestScore_Bounds(t *testing.T) {
	due := time.Now()
	done := due.AddDate(0, 0, -1)
	cases := []MoU{
		{},
		{Deliverables: []Deliverable{{ID: "a", Status: DeliverablePending}}},
		{Deliverables: []Deliverable{{ID: "a", Status: DeliverableCompleted, DueDate: &due, CompletionDate: &done}}},
		{Deliverables: []Deliverable{
			{ID: "a", Status: DeliverableCompleted, DueDate: &due, CompletionDate: &done},
			{ID: "b", Status: DeliverableCancelled},
		}},
		{PerformanceMetrics: []Metric{{TargetValue: 1, CurrentValue: 2}}},
		{
			Deliverables:       []Deliverable{{ID: "a", Status: DeliverableCompleted, DueDate: &due, CompletionDate: &done}},
			PerformanceMetrics: []Metric{{TargetValue: 1, CurrentValue: 2}},
		},
	}
	for i, m := range cases {
		p := Score(m)
		for name, v := range map[string]float64{
			"deliverables_completion": p.DeliverablesCompletion,
			"on_time_delivery":        p.OnTimeDelivery,
			"metrics_achievement":     p.MetricsAchievement,
			"overall_score":           p.OverallScore,
		} {
			if v < 0 || v > 100 {
				t.Errorf("case %d: %s = %.2f outside [0,100]", i, name, v)
			}
		}
	}
}

func TestScore_CompletedWithoutCompletionDateNotOnTime(t *testing.T) {
	due := time.Now()
	m := MoU{
		Deliverables: []Deliverable{
			{ID: "a", Status: DeliverableCompleted, DueDate: &due},
		},
	}
	p := Score(m)
	if p.OnTimeDelivery != 0 {
		t.Errorf("on_time_delivery = %.2f, want 0 without completion_date", p.OnTimeDelivery)
	}
	if p.DeliverablesCompletion != 100 {
		t.Errorf("deliverables_completion = %.2f, want 100", p.DeliverablesCompletion)
	}
}
