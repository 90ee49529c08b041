package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func step(parent *uuid.UUID) WorkflowStep {
	return WorkflowStep{ID: uuid.New(), DocumentID: uuid.New(), ParentStepID: parent, StepStatus: StepPending}
}

func collectIDs(nodes []*StepTreeNode, into map[uuid.UUID]int) {
	for _, node := range nodes {
		into[node.ID]++
		collectIDs(node.Children, into)
	}
}

func TestBuildForestPartitionsEveryStepExactlyOnce(t *testing.T) {
	rootA := step(nil)
	rootB := step(nil)
	childA1 := step(&rootA.ID)
	childA2 := step(&rootA.ID)
	grandchild := step(&childA1.ID)

	// Newest-first, the order the store returns.
	steps := []WorkflowStep{grandchild, childA2, childA1, rootB, rootA}
	forest := BuildForest(steps)

	assert.Len(t, forest, 2)
	assert.Equal(t, rootB.ID, forest[0].ID)
	assert.Equal(t, rootA.ID, forest[1].ID)

	seen := map[uuid.UUID]int{}
	collectIDs(forest, seen)
	assert.Len(t, seen, len(steps))
	for _, step := range steps {
		assert.Equal(t, 1, seen[step.ID])
	}
}

func TestBuildForestPreservesInputOrderAmongSiblings(t *testing.T) {
	root := step(nil)
	older := step(&root.ID)
	newer := step(&root.ID)

	forest := BuildForest([]WorkflowStep{newer, older, root})

	assert.Len(t, forest, 1)
	children := forest[0].Children
	assert.Len(t, children, 2)
	assert.Equal(t, newer.ID, children[0].ID)
	assert.Equal(t, older.ID, children[1].ID)
}

func TestBuildForestTreatsMissingParentAsRoot(t *testing.T) {
	missing := uuid.New()
	orphan := step(&missing)

	forest := BuildForest([]WorkflowStep{orphan})

	assert.Len(t, forest, 1)
	assert.Equal(t, orphan.ID, forest[0].ID)
}

func TestBuildForestEmptyInput(t *testing.T) {
	assert.Empty(t, BuildForest(nil))
	assert.Empty(t, BuildForest([]WorkflowStep{}))
}
