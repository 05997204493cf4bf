package thread

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/papergraph/internal/model"
)

func rev(id, replyTo string, cdate int64) model.Review {
	return model.Review{ID: id, ReplyTo: replyTo, CDate: cdate, ReviewType: model.TypeComment}
}

func TestBuildForest_Empty(t *testing.T) {
	forest, notes := BuildForest(nil)
	assert.Empty(t, forest)
	assert.Empty(t, notes)
}

func TestBuildForest_SimpleThread(t *testing.T) {
	records := []model.Review{
		{ID: "r1", CDate: 100, ReviewType: model.TypeOfficialReview,
			Content: map[string]model.FieldValue{"summary": model.StringValue("Good paper")}},
		{ID: "r2", ReplyTo: "r1", CDate: 200, ReviewType: model.TypeRebuttal,
			Content: map[string]model.FieldValue{"comment": model.StringValue("Thanks, fixed it")}},
	}

	forest, notes := BuildForest(records)
	require.Len(t, forest, 1)
	assert.Empty(t, notes)

	root := forest[0]
	assert.Equal(t, "r1", root.Review.ID)
	assert.Equal(t, 0, root.Depth)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "r2", root.Children[0].Review.ID)
	assert.Equal(t, 1, root.Children[0].Depth)
	assert.Equal(t, 1, MaxDepth(forest))
}

func TestBuildForest_DanglingParentBecomesRoot(t *testing.T) {
	records := []model.Review{
		rev("r1", "nonexistent", 100),
		rev("r2", "r1", 200),
	}

	forest, notes := BuildForest(records)
	require.Len(t, forest, 1)
	assert.Equal(t, "r1", forest[0].Review.ID)
	assert.Equal(t, 0, forest[0].Depth)

	require.Len(t, notes, 1)
	assert.Equal(t, QualityDanglingParent, notes[0].Kind)
	assert.Equal(t, "r1", notes[0].RecordID)
}

func TestBuildForest_SelfReference(t *testing.T) {
	forest, notes := BuildForest([]model.Review{rev("r1", "r1", 100)})
	require.Len(t, forest, 1)
	assert.Equal(t, 0, forest[0].Depth)
	assert.Empty(t, forest[0].Children)

	require.Len(t, notes, 1)
	assert.Equal(t, QualitySelfReference, notes[0].Kind)
}

func TestBuildForest_CycleTerminates(t *testing.T) {
	// a -> b -> c -> a is a reply cycle with no root.
	records := []model.Review{
		rev("a", "c", 100),
		rev("b", "a", 200),
		rev("c", "b", 300),
	}

	forest, notes := BuildForest(records)
	require.NotEmpty(t, forest)

	// Every record ends up in the forest exactly once.
	assert.Equal(t, 3, Count(forest))

	hasCycleNote := false
	for _, n := range notes {
		if n.Kind == QualityCycle {
			hasCycleNote = true
		}
	}
	assert.True(t, hasCycleNote)

	// Depth invariant holds after healing.
	Walk(forest, func(n *Node) {
		for _, child := range n.Children {
			assert.Equal(t, n.Depth+1, child.Depth)
		}
	})
}

func TestBuildForest_DuplicateIDKeepsLastSeen(t *testing.T) {
	records := []model.Review{
		{ID: "r1", CDate: 100, ReviewType: model.TypeOfficialReview},
		{ID: "r1", CDate: 150, ReviewType: model.TypeMetaReview},
	}

	forest, notes := BuildForest(records)
	require.Len(t, forest, 1)
	assert.Equal(t, model.TypeMetaReview, forest[0].Review.ReviewType)

	require.Len(t, notes, 1)
	assert.Equal(t, QualityDuplicateID, notes[0].Kind)
}

func TestBuildForest_ChildrenSortedByTimestamp(t *testing.T) {
	records := []model.Review{
		rev("root", "", 100),
		rev("late", "root", 300),
		rev("early", "root", 200),
		rev("untimed", "root", 0),
	}

	forest, _ := BuildForest(records)
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Children, 3)

	// Missing timestamps sort first, then ascending.
	assert.Equal(t, "untimed", forest[0].Children[0].Review.ID)
	assert.Equal(t, "early", forest[0].Children[1].Review.ID)
	assert.Equal(t, "late", forest[0].Children[2].Review.ID)
}

func TestBuildForest_RootsSortedByTimestamp(t *testing.T) {
	records := []model.Review{
		rev("b", "", 300),
		rev("a", "", 100),
		rev("tie2", "", 200),
		rev("tie1", "", 200),
	}

	forest, _ := BuildForest(records)
	require.Len(t, forest, 4)
	assert.Equal(t, "a", forest[0].Review.ID)
	// Equal timestamps keep input order.
	assert.Equal(t, "tie2", forest[1].Review.ID)
	assert.Equal(t, "tie1", forest[2].Review.ID)
	assert.Equal(t, "b", forest[3].Review.ID)
}

func TestBuildForest_DepthInvariantHoldsForLargeInput(t *testing.T) {
	// A long chain plus scattered replies; the builder must stay linear and
	// keep depth(child) = depth(parent) + 1 throughout.
	var records []model.Review
	records = append(records, rev("n0", "", 1))
	for i := 1; i < 200; i++ {
		records = append(records, rev(
			fmt.Sprintf("n%d", i),
			fmt.Sprintf("n%d", i-1),
			int64(i+1),
		))
	}

	forest, notes := BuildForest(records)
	assert.Empty(t, notes)
	assert.Equal(t, 199, MaxDepth(forest))
	assert.Equal(t, 200, Count(forest))

	Walk(forest, func(n *Node) {
		for _, child := range n.Children {
			assert.Equal(t, n.Depth+1, child.Depth)
		}
	})
}

func TestBuildForest_IgnoresEmptyIDs(t *testing.T) {
	records := []model.Review{
		rev("", "", 100),
		rev("r1", "", 200),
	}
	forest, _ := BuildForest(records)
	assert.Equal(t, 1, Count(forest))
}
