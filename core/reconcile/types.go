package reconcile

// Unset is the identity of an entity the store has not assigned an id to yet.
const Unset = 0

// Entity is implemented by child models that take part in reconciliation.
// T is the model's own pointer type, e.g. *models.Ingredient.
type Entity[T any] interface {
	// Identity returns the key used to match desired and current entities.
	Identity() int
	// ResetIdentity clears the store-assigned id so an insert gets a fresh one.
	ResetIdentity()
	// Equal reports whether every persisted scalar field matches other.
	Equal(other T) bool
}

// ActionType represents the type of a staged operation.
type ActionType string

const (
	// ActionInsert inserts a new row.
	ActionInsert ActionType = "insert"
	// ActionUpdate overwrites an existing row with the desired fields.
	ActionUpdate ActionType = "update"
	// ActionDelete deletes an existing row.
	ActionDelete ActionType = "delete"
	// ActionHook runs only hooks, with no row operation.
	ActionHook ActionType = "hook"
)

// Pair holds the current and desired versions of an entity present in both collections.
type Pair[T any] struct {
	Current T
	Desired T
}

// Plan is the outcome of diffing one child collection.
type Plan[T any] struct {
	// ToAdd holds desired entities unknown to the store; identities are already reset.
	ToAdd []T
	// ToUpdate holds entities present on both sides whose fields differ.
	ToUpdate []Pair[T]
	// Unchanged holds entities present on both sides with equal fields.
	Unchanged []T
	// ToDelete holds current entities absent from the desired collection.
	ToDelete []T
	// Summary provides aggregate counts.
	Summary PlanSummary
}

// PlanSummary provides aggregate statistics for one collection's plan.
type PlanSummary struct {
	// Collection names the reconciled child collection.
	Collection string `json:"collection"`
	// Added counts planned inserts.
	Added int `json:"added"`
	// Updated counts planned updates.
	Updated int `json:"updated"`
	// Deleted counts planned deletes.
	Deleted int `json:"deleted"`
	// Unchanged counts entities skipped because nothing changed.
	Unchanged int `json:"unchanged"`
}

// Writes returns the number of store writes the plan stages.
func (s PlanSummary) Writes() int {
	return s.Added + s.Updated + s.Deleted
}

// Partition splits identities into the sets touched by reconciliation.
type Partition struct {
	ToAdd    map[int]struct{}
	ToUpdate map[int]struct{}
	ToDelete map[int]struct{}
}
