package reconcile

import (
	"fmt"

	rerrors "recipe-manager/core/errors"
)

// PartitionIDs computes toAdd = desired − current, toDelete = current − desired
// and toUpdate = current ∩ desired. The three sets are disjoint and their
// union equals current ∪ desired.
func PartitionIDs(desired, current []int) Partition {
	desiredSet := toSet(desired)
	currentSet := toSet(current)

	p := Partition{
		ToAdd:    make(map[int]struct{}),
		ToUpdate: make(map[int]struct{}),
		ToDelete: make(map[int]struct{}),
	}
	for id := range desiredSet {
		if _, ok := currentSet[id]; ok {
			p.ToUpdate[id] = struct{}{}
		} else {
			p.ToAdd[id] = struct{}{}
		}
	}
	for id := range currentSet {
		if _, ok := desiredSet[id]; !ok {
			p.ToDelete[id] = struct{}{}
		}
	}
	return p
}

// Diff plans the reconciliation of current towards desired.
//
// Desired entities with the Unset identity, or with an identity the store
// does not know, are planned as inserts and get their identity reset.
// A repeated non-Unset identity in desired fails with DUPLICATE_IDENTITY
// and produces no plan.
func Diff[T Entity[T]](collection string, desired, current []T) (*Plan[T], error) {
	if err := checkDuplicates(collection, desired); err != nil {
		return nil, err
	}

	currentByID := make(map[int]T, len(current))
	currentIDs := make([]int, 0, len(current))
	for _, c := range current {
		currentByID[c.Identity()] = c
		currentIDs = append(currentIDs, c.Identity())
	}

	desiredIDs := make([]int, 0, len(desired))
	for _, d := range desired {
		if d.Identity() != Unset {
			desiredIDs = append(desiredIDs, d.Identity())
		}
	}

	part := PartitionIDs(desiredIDs, currentIDs)
	plan := &Plan[T]{Summary: PlanSummary{Collection: collection}}

	// Walk desired in order so inserts keep the caller's ordering.
	for _, d := range desired {
		id := d.Identity()
		if _, update := part.ToUpdate[id]; id != Unset && update {
			cur := currentByID[id]
			if cur.Equal(d) {
				plan.Unchanged = append(plan.Unchanged, cur)
			} else {
				plan.ToUpdate = append(plan.ToUpdate, Pair[T]{Current: cur, Desired: d})
			}
			continue
		}
		d.ResetIdentity()
		plan.ToAdd = append(plan.ToAdd, d)
	}

	for _, c := range current {
		if _, del := part.ToDelete[c.Identity()]; del {
			plan.ToDelete = append(plan.ToDelete, c)
		}
	}

	plan.Summary.Added = len(plan.ToAdd)
	plan.Summary.Updated = len(plan.ToUpdate)
	plan.Summary.Unchanged = len(plan.Unchanged)
	plan.Summary.Deleted = len(plan.ToDelete)
	return plan, nil
}

// Reconcile diffs desired against current and stages the resulting
// operations into cs. On error nothing is staged.
func Reconcile[T Entity[T]](cs *ChangeSet, collection string, desired, current []T, stager Stager[T]) (PlanSummary, error) {
	plan, err := Diff(collection, desired, current)
	if err != nil {
		return PlanSummary{Collection: collection}, err
	}
	Apply(cs, plan, stager)
	recordPlan(plan.Summary)
	return plan.Summary, nil
}

func checkDuplicates[T Entity[T]](collection string, desired []T) error {
	seen := make(map[int]struct{}, len(desired))
	for _, d := range desired {
		id := d.Identity()
		if id == Unset {
			continue
		}
		if _, dup := seen[id]; dup {
			return rerrors.NewWithContext(rerrors.ErrCodeDuplicateIdentity,
				fmt.Sprintf("%s: id %d appears more than once", collection, id),
				map[string]any{"collection": collection, "id": id})
		}
		seen[id] = struct{}{}
	}
	return nil
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
