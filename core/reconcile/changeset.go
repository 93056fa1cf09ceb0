package reconcile

import (
	"context"
	"fmt"

	rerrors "recipe-manager/core/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Hook runs inside the flush transaction around a staged operation.
type Hook func(ctx context.Context, tx *gorm.DB) error

// Writer runs inside the flush transaction, performs its own row writes and
// returns how many rows it affected.
type Writer func(ctx context.Context, tx *gorm.DB) (int, error)

// Op is one pending operation.
type Op struct {
	// Action is the row operation to perform.
	Action ActionType
	// Entity is the gorm model the operation targets; nil for ActionHook.
	Entity any
	// Write replaces the row operation of an ActionHook; its count joins the flush total.
	Write Writer
	// Before runs ahead of the row operation.
	Before Hook
	// After runs once the row operation succeeded; inserted entities carry their new id.
	After Hook
}

// OpOption customises a staged operation.
type OpOption func(*Op)

// WithBefore attaches a hook run before the row operation.
func WithBefore(h Hook) OpOption {
	return func(op *Op) { op.Before = h }
}

// WithAfter attaches a hook run after the row operation.
func WithAfter(h Hook) OpOption {
	return func(op *Op) { op.After = h }
}

// ChangeSet is an explicit set of pending operations flushed once by the orchestrator.
// It is not safe for concurrent use; one change set belongs to one aggregate update.
type ChangeSet struct {
	ops     []Op
	undos   []func()
	commits []func()
}

// NewChangeSet creates an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

// Insert stages an insert.
func (cs *ChangeSet) Insert(entity any, opts ...OpOption) {
	cs.add(ActionInsert, entity, opts)
}

// Update stages a full-field update of an existing row.
func (cs *ChangeSet) Update(entity any, opts ...OpOption) {
	cs.add(ActionUpdate, entity, opts)
}

// Delete stages a delete.
func (cs *ChangeSet) Delete(entity any, opts ...OpOption) {
	cs.add(ActionDelete, entity, opts)
}

// Run stages hooks that perform no row operation of their own.
func (cs *ChangeSet) Run(opts ...OpOption) {
	cs.add(ActionHook, nil, opts)
}

// Exec stages a writer that issues its own row writes.
func (cs *ChangeSet) Exec(w Writer, opts ...OpOption) {
	cs.add(ActionHook, nil, opts).Write = w
}

func (cs *ChangeSet) add(action ActionType, entity any, opts []OpOption) *Op {
	op := Op{Action: action, Entity: entity}
	for _, opt := range opts {
		opt(&op)
	}
	cs.ops = append(cs.ops, op)
	return &cs.ops[len(cs.ops)-1]
}

// Ops returns the staged operations in flush order.
func (cs *ChangeSet) Ops() []Op {
	return cs.ops
}

// Len returns the number of staged row operations and writers, hook-only operations excluded.
func (cs *ChangeSet) Len() int {
	n := 0
	for _, op := range cs.ops {
		if op.Action != ActionHook || op.Write != nil {
			n++
		}
	}
	return n
}

// OnRollback registers a compensation for an external side effect.
// Hooks call it right after the side effect happened.
func (cs *ChangeSet) OnRollback(undo func()) {
	cs.undos = append(cs.undos, undo)
}

// OnCommit registers a callback run once the owning transaction committed.
func (cs *ChangeSet) OnCommit(fn func()) {
	cs.commits = append(cs.commits, fn)
}

// Rollback runs the registered compensations in reverse order and clears them.
// Pending commit callbacks are dropped.
func (cs *ChangeSet) Rollback() {
	for i := len(cs.undos) - 1; i >= 0; i-- {
		cs.undos[i]()
	}
	cs.undos = nil
	cs.commits = nil
}

// Committed runs the commit callbacks in registration order and clears both
// callbacks and compensations.
func (cs *ChangeSet) Committed() {
	for _, fn := range cs.commits {
		fn()
	}
	cs.commits = nil
	cs.undos = nil
}

// Flush applies the staged operations in order on tx and returns the number
// of rows affected. It stops at the first failure and runs the registered
// compensations; rolling back tx is left to the caller that owns it.
func (cs *ChangeSet) Flush(ctx context.Context, tx *gorm.DB) (changes int, err error) {
	defer func() {
		if err != nil {
			cs.Rollback()
		}
	}()

	for i, op := range cs.ops {
		if op.Before != nil {
			if err := op.Before(ctx, tx); err != nil {
				return changes, err
			}
		}

		switch {
		case op.Write != nil:
			n, err := op.Write(ctx, tx)
			if err != nil {
				return changes, err
			}
			changes += n
		case op.Action != ActionHook:
			n, err := execute(ctx, tx, op)
			if err != nil {
				return changes, rerrors.WrapWithContext(rerrors.ErrCodePersistence,
					fmt.Sprintf("%s %T failed", op.Action, op.Entity), err,
					map[string]any{"op": i, "entity": op.Entity})
			}
			changes += n
		}

		if op.After != nil {
			if err := op.After(ctx, tx); err != nil {
				return changes, err
			}
		}
	}
	return changes, nil
}

func execute(ctx context.Context, tx *gorm.DB, op Op) (int, error) {
	db := tx.WithContext(ctx).Omit(clause.Associations)

	var result *gorm.DB
	switch op.Action {
	case ActionInsert:
		result = db.Create(op.Entity)
	case ActionUpdate:
		result = tx.WithContext(ctx).Model(op.Entity).Select("*").Omit(clause.Associations).Updates(op.Entity)
	case ActionDelete:
		result = db.Delete(op.Entity)
	default:
		return 0, fmt.Errorf("unknown action %q", op.Action)
	}
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
