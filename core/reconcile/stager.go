package reconcile

// Stager turns a plan into pending operations on a ChangeSet.
// Models whose rows have external side effects implement their own.
type Stager[T any] interface {
	// StageInsert stages the insert of a new entity.
	StageInsert(cs *ChangeSet, entity T)
	// StageUpdate stages overwriting current with desired.
	StageUpdate(cs *ChangeSet, current, desired T)
	// StageDelete stages the removal of an entity.
	StageDelete(cs *ChangeSet, entity T)
}

// DefaultStager stages plain row operations.
type DefaultStager[T any] struct{}

// StageInsert stages an insert of entity.
func (DefaultStager[T]) StageInsert(cs *ChangeSet, entity T) {
	cs.Insert(entity)
}

// StageUpdate stages an update carrying the desired fields.
func (DefaultStager[T]) StageUpdate(cs *ChangeSet, current, desired T) {
	cs.Update(desired)
}

// StageDelete stages a delete of entity.
func (DefaultStager[T]) StageDelete(cs *ChangeSet, entity T) {
	cs.Delete(entity)
}

// Apply stages a plan: inserts, then deletes, then updates.
// Unchanged entities stage nothing.
func Apply[T any](cs *ChangeSet, plan *Plan[T], stager Stager[T]) {
	for _, e := range plan.ToAdd {
		stager.StageInsert(cs, e)
	}
	for _, e := range plan.ToDelete {
		stager.StageDelete(cs, e)
	}
	for _, p := range plan.ToUpdate {
		stager.StageUpdate(cs, p.Current, p.Desired)
	}
}
