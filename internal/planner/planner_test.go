package planner

import (
	"testing"

	rgtypes "github.com/arl/rget/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCoversTotalExactly(t *testing.T) {
	plan, err := Plan(4, 100)
	require.NoError(t, err)

	var sum uint64
	for _, r := range plan.Ranges {
		assert.LessOrEqual(t, r.Start, r.End)
		sum += r.Size()
	}

	assert.Equal(t, uint64(100), sum)
}

func TestPlanSingleConnection(t *testing.T) {
	plan, err := Plan(1, 50)
	require.NoError(t, err)
	require.Len(t, plan.Ranges, 1)
	assert.Equal(t, rgtypes.Range{Start: 0, End: 49}, plan.Ranges[0])
}

func TestPlanZeroTotalFails(t *testing.T) {
	_, err := Plan(4, 0)
	assert.Error(t, err)
}

func TestPlanNMoreThanTotalClamps(t *testing.T) {
	plan, err := Plan(100, 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, plan.NumChunks(), 10)

	var sum uint64
	for _, r := range plan.Ranges {
		assert.LessOrEqual(t, r.Start, r.End)
		sum += r.Size()
	}
	assert.Equal(t, uint64(10), sum)
}

func TestPlanCollapsesOvershootingTailChunks(t *testing.T) {
	// total=7, n=5 -> chunk=2, naive 5th chunk would start at 8 (>= total).
	plan, err := Plan(5, 7)
	require.NoError(t, err)

	var sum uint64
	for _, r := range plan.Ranges {
		assert.Less(t, r.Start, uint64(7))
		assert.LessOrEqual(t, r.Start, r.End)
		sum += r.Size()
	}
	assert.Equal(t, uint64(7), sum)
	assert.Less(t, plan.NumChunks(), 5)
}

func TestPlanRangesAreDisjointAndOrdered(t *testing.T) {
	plan, err := Plan(7, 1000)
	require.NoError(t, err)

	for i := 1; i < len(plan.Ranges); i++ {
		assert.Equal(t, plan.Ranges[i-1].End+1, plan.Ranges[i].Start)
	}
}
