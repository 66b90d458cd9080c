package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTieredPlan(t *testing.T) {
	plan := TieredPlan([]string{"easy", "easy", "medium", "medium", "hard"}, []string{"medium", "easy", "hard"})
	require.Len(t, plan, 5)
	assert.Equal(t, []string{"easy", "medium", "hard"}, plan[0])
	assert.Equal(t, []string{"medium", "easy", "hard"}, plan[2])
	assert.Equal(t, []string{"hard", "medium", "easy"}, plan[4])
}

func TestFillSlotsBackfillsShortTiers(t *testing.T) {
	plan := TieredPlan([]string{"easy", "easy", "medium", "medium", "hard"}, []string{"medium", "easy", "hard"})
	buckets := map[string][]string{
		"easy":   {"e1"},
		"medium": {"m1", "m2", "m3"},
		"hard":   {"h1"},
	}

	filled, ok := FillSlots(buckets, plan)
	require.True(t, ok)
	assert.Equal(t, []string{"e1", "m1", "m2", "m3", "h1"}, filled)
	assert.Len(t, buckets["medium"], 3, "input buckets are not consumed")
}

func TestFillSlotsReportsShortfall(t *testing.T) {
	filled, ok := FillSlots(map[string][]int{"flat": {1, 2, 3}}, FlatPlan("flat", 5))
	assert.False(t, ok)
	assert.Equal(t, []int{1, 2, 3}, filled)
}

func TestFillSlotsNeverReusesAnItem(t *testing.T) {
	filled, ok := FillSlots(map[string][]string{"a": {"x", "y"}, "b": {"z"}}, SlotPlan{{"a"}, {"a", "b"}, {"a", "b"}})
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, filled)
}
