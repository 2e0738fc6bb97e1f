package mou

import (
	"fmt"
	"time"
)

// DeliverablePatch is a partial update of a single deliverable. Only non-nil
// fields overwrite; everything else keeps its current value.
type DeliverablePatch struct {
	Title                *string
	Description          *string
	ResponsibleParty     *string
	DueDate              *time.Time
	Status               *DeliverableStatus
	CompletionDate       *time.Time
	CompletionPercentage *int
	Notes                *string
	Attachments          []string
}

// ApplyDeliverablePatch merges patch into the deliverable with the given ID
// on a copy of the aggregate. The second return value reports whether every
// deliverable is now completed, so the orchestrator can raise its
// notification; the tracker itself sends nothing.
//
// Returns ErrNotFound when the ID is absent from the MoU's deliverable list.
func ApplyDeliverablePatch(m MoU, deliverableID string, patch DeliverablePatch, now time.Time) (MoU, bool, error) {
	idx := -1
	for i := range m.Deliverables {
		if m.Deliverables[i].ID == deliverableID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return MoU{}, false, fmt.Errorf("%w: deliverable %s", ErrNotFound, deliverableID)
	}

	// Clone the list so the caller's aggregate stays untouched.
	deliverables := make([]Deliverable, len(m.Deliverables))
	copy(deliverables, m.Deliverables)

	d := deliverables[idx]
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.ResponsibleParty != nil {
		d.ResponsibleParty = *patch.ResponsibleParty
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		d.DueDate = &due
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.CompletionDate != nil {
		completed := *patch.CompletionDate
		d.CompletionDate = &completed
	}
	if patch.CompletionPercentage != nil {
		pct := *patch.CompletionPercentage
		d.CompletionPercentage = &pct
	}
	if patch.Notes != nil {
		d.Notes = *patch.Notes
	}
	if patch.Attachments != nil {
		d.Attachments = append([]string(nil), patch.Attachments...)
	}
	deliverables[idx] = d

	m.Deliverables = deliverables
	m.UpdatedAt = now

	allCompleted := true
	for _, d := range m.Deliverables {
		if d.Status != DeliverableCompleted {
			allCompleted = false
			break
		}
	}
	return m, allCompleted, nil
}
