// Package reconcile computes the difference between a stored child collection
// and a submitted one so the caller can synchronize the two inside a single
// transaction. It is persistence-agnostic: callers pass IDs in, apply the
// resulting plan themselves.
package reconcile

import (
	"github.com/pkg/errors"
)

// ErrUnknownChild is returned when a submitted child carries an ID that is not
// part of the parent's stored collection. Callers are expected to surface it
// as a not-found condition and roll back.
var ErrUnknownChild = errors.New("submitted child id does not belong to this parent")

// Plan classifies a submission against the stored collection. Update and
// Insert hold indices into the submitted slice so callers keep access to the
// full child payloads.
type Plan struct {
	Delete []int64 // stored IDs omitted from the submission
	Update []int   // submitted entries carrying an existing ID
	Insert []int   // submitted entries without an ID
}

// Diff builds the plan for a parent whose stored children have the given IDs.
// submitted[i] is the optional ID of the i-th submitted child; nil marks a new
// child to insert.
//
// Duplicate IDs within one submission are not deduplicated: every occurrence
// is classified for update, so when the plan is applied in order the last
// occurrence wins.
func Diff(existing []int64, submitted []*int64) (Plan, error) {
	known := make(map[int64]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	var plan Plan
	kept := make(map[int64]bool, len(submitted))
	for i, id := range submitted {
		if id == nil {
			plan.Insert = append(plan.Insert, i)
			continue
		}
		if !known[*id] {
			return Plan{}, errors.Wrapf(ErrUnknownChild, "child id %d", *id)
		}
		kept[*id] = true
		plan.Update = append(plan.Update, i)
	}

	for _, id := range existing {
		if !kept[id] {
			plan.Delete = append(plan.Delete, id)
		}
	}
	return plan, nil
}
