package reconcile

import (
	"math/rand"
	"testing"

	rerrors "recipe-manager/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// item is a minimal reconcilable entity.
type item struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func (i *item) Identity() int      { return i.ID }
func (i *item) ResetIdentity()     { i.ID = Unset }
func (i *item) Equal(o *item) bool { return o != nil && i.Name == o.Name }

func ids(items []*item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestPartitionIDs_DisjointAndComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		desired := randomIDs(rng)
		current := randomIDs(rng)

		p := PartitionIDs(desired, current)

		union := make(map[int]struct{})
		for _, id := range append(append([]int{}, desired...), current...) {
			union[id] = struct{}{}
		}

		seen := make(map[int]int)
		for id := range p.ToAdd {
			seen[id]++
		}
		for id := range p.ToUpdate {
			seen[id]++
		}
		for id := range p.ToDelete {
			seen[id]++
		}

		assert.Len(t, seen, len(union), "round %d: union mismatch", round)
		for id, n := range seen {
			assert.Equal(t, 1, n, "round %d: id %d in more than one set", round, id)
			_, ok := union[id]
			assert.True(t, ok)
		}
	}
}

func randomIDs(rng *rand.Rand) []int {
	n := rng.Intn(8)
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, rng.Intn(12)+1)
	}
	return out
}

func TestPartitionIDs_Sets(t *testing.T) {
	p := PartitionIDs([]int{2, 3}, []int{1, 2})

	assert.Equal(t, map[int]struct{}{3: {}}, p.ToAdd)
	assert.Equal(t, map[int]struct{}{2: {}}, p.ToUpdate)
	assert.Equal(t, map[int]struct{}{1: {}}, p.ToDelete)
}

func TestDiff_Partition(t *testing.T) {
	current := []*item{{ID: 1, Name: "Cut"}, {ID: 2, Name: "Boil"}, {ID: 4, Name: "Serve"}}
	desired := []*item{{ID: 2, Name: "Boil hard"}, {ID: 4, Name: "Serve"}, {ID: 0, Name: "Plate"}}

	plan, err := Diff("instructions", desired, current)
	require.NoError(t, err)

	require.Len(t, plan.ToAdd, 1)
	assert.Equal(t, "Plate", plan.ToAdd[0].Name)

	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, 2, plan.ToUpdate[0].Current.ID)
	assert.Equal(t, "Boil hard", plan.ToUpdate[0].Desired.Name)

	assert.Equal(t, []int{4}, ids(plan.Unchanged))
	assert.Equal(t, []int{1}, ids(plan.ToDelete))

	assert.Equal(t, PlanSummary{Collection: "instructions", Added: 1, Updated: 1, Deleted: 1, Unchanged: 1}, plan.Summary)
	assert.Equal(t, 3, plan.Summary.Writes())
}

func TestDiff_UnknownIDIsInsertedWithResetIdentity(t *testing.T) {
	current := []*item{{ID: 1, Name: "Cut"}, {ID: 2, Name: "Boil"}}
	desired := []*item{{ID: 2, Name: "Boil"}, {ID: 3, Name: "New Turn"}}

	plan, err := Diff("instructions", desired, current)
	require.NoError(t, err)

	require.Len(t, plan.ToAdd, 1)
	assert.Equal(t, "New Turn", plan.ToAdd[0].Name)
	assert.Equal(t, Unset, plan.ToAdd[0].ID)
	assert.Equal(t, []int{1}, ids(plan.ToDelete))
	assert.Empty(t, plan.ToUpdate)
}

func TestDiff_EmptyDesiredDeletesEverything(t *testing.T) {
	current := []*item{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	plan, err := Diff("ingredients", nil, current)
	require.NoError(t, err)

	assert.Empty(t, plan.ToAdd)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(plan.ToDelete))
}

func TestDiff_EmptyCurrentInsertsEverything(t *testing.T) {
	desired := []*item{{Name: "a"}, {Name: "b"}, {ID: 9, Name: "c"}}

	plan, err := Diff("medias", desired, nil)
	require.NoError(t, err)

	assert.Len(t, plan.ToAdd, 3)
	for _, it := range plan.ToAdd {
		assert.Equal(t, Unset, it.ID)
	}
}

func TestDiff_DuplicateIdentity(t *testing.T) {
	desired := []*item{{ID: 5, Name: "x"}, {ID: 5, Name: "y"}}

	plan, err := Diff("ingredients", desired, []*item{{ID: 5}})

	assert.Nil(t, plan)
	require.Error(t, err)
	assert.True(t, rerrors.IsCode(err, rerrors.ErrCodeDuplicateIdentity))
	// No identity was touched.
	assert.Equal(t, 5, desired[0].ID)
	assert.Equal(t, 5, desired[1].ID)
}

func TestDiff_RepeatedUnsetIsNotDuplicate(t *testing.T) {
	desired := []*item{{Name: "a"}, {Name: "b"}}

	plan, err := Diff("ingredients", desired, nil)
	require.NoError(t, err)
	assert.Len(t, plan.ToAdd, 2)
}

func TestDiff_Idempotent(t *testing.T) {
	current := []*item{{ID: 1, Name: "Cut"}, {ID: 2, Name: "Boil"}}
	desired := []*item{{ID: 1, Name: "Cut"}, {ID: 2, Name: "Boil"}}

	plan, err := Diff("instructions", desired, current)
	require.NoError(t, err)

	assert.Zero(t, plan.Summary.Writes())
	assert.Len(t, plan.Unchanged, 2)
}

type recordingStager struct {
	calls []string
}

func (r *recordingStager) StageInsert(cs *ChangeSet, e *item) {
	r.calls = append(r.calls, "insert:"+e.Name)
	cs.Insert(e)
}

func (r *recordingStager) StageUpdate(cs *ChangeSet, cur, des *item) {
	r.calls = append(r.calls, "update:"+des.Name)
	cs.Update(des)
}

func (r *recordingStager) StageDelete(cs *ChangeSet, e *item) {
	r.calls = append(r.calls, "delete:"+e.Name)
	cs.Delete(e)
}

func TestReconcile_StagesInOrder(t *testing.T) {
	cs := NewChangeSet()
	stager := &recordingStager{}
	current := []*item{{ID: 1, Name: "old"}, {ID: 2, Name: "keep"}}
	desired := []*item{{ID: 2, Name: "kept"}, {Name: "new"}}

	summary, err := Reconcile[*item](cs, "items", desired, current, stager)
	require.NoError(t, err)

	assert.Equal(t, []string{"insert:new", "delete:old", "update:kept"}, stager.calls)
	assert.Equal(t, 3, cs.Len())
	assert.Equal(t, 3, summary.Writes())
}

func TestReconcile_DuplicateStagesNothing(t *testing.T) {
	cs := NewChangeSet()

	_, err := Reconcile[*item](cs, "items", []*item{{ID: 1}, {ID: 1}}, nil, DefaultStager[*item]{})

	require.Error(t, err)
	assert.Zero(t, cs.Len())
}
