// Package reconcile provides the generic add/update/delete reconciliation
// used to bring a persisted child collection in line with a desired one.
//
// # Architecture
//
// The reconcile system consists of three parts:
//
// 1. Diff: partitions the identities of a desired and a current collection
// into ToAdd, ToUpdate, Unchanged and ToDelete. Desired collections with
// repeated identities are rejected before anything is planned.
//
// 2. Stager: model-specific logic that turns a plan into pending operations.
// DefaultStager emits plain insert/update/delete operations; models with side
// effects (media files) supply their own.
//
// 3. ChangeSet: the explicit pending change set. Operations are staged,
// never executed, until the orchestrator flushes the set once inside a
// database transaction. Hooks run around each operation and may register
// compensations that undo external side effects when the flush fails.
// Writers staged with Exec issue their own rows and add their count to the
// flush total. Callbacks registered with OnCommit run only when the owner of
// the transaction calls Committed.
//
// # Usage Example
//
//	cs := reconcile.NewChangeSet()
//	summary, err := reconcile.Reconcile(cs, "ingredients", desired, current,
//	    reconcile.DefaultStager[*models.Ingredient]{})
//	if err != nil {
//	    return err // nothing was staged for this collection
//	}
//	err = db.Transaction(func(tx *gorm.DB) error {
//	    _, err := cs.Flush(ctx, tx)
//	    return err
//	})
//	if err == nil {
//	    cs.Committed()
//	}
package reconcile
