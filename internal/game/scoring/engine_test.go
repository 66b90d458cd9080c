package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltaLaw(t *testing.T) {
	engine := NewEngine(DefaultScoringConfig())

	tests := []struct {
		points int
		m      Multiplier
		want   int
	}{
		{200, Full, 200},
		{600, Half, 300},
		{800, Half, 400},
		{1000, Miss, -1000},
		{400, Miss, -400},
	}
	for _, tt := range tests {
		got, err := engine.Delta(tt.points, tt.m)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "P=%d m=%v", tt.points, tt.m)
	}
}

func TestHalfCreditIsExactForEveryPointValue(t *testing.T) {
	engine := NewEngine(DefaultScoringConfig())
	for _, p := range []int{200, 400, 600, 800, 1000} {
		got, err := engine.Delta(p, Half)
		require.NoError(t, err)
		assert.Zero(t, p%2, "point value %d is even", p)
		assert.Equal(t, p, got*2, "no rounding for %d", p)
	}

	// Odd values floor.
	got, err := engine.Delta(301, Half)
	require.NoError(t, err)
	assert.Equal(t, 150, got)
}

func TestMissWithoutPenalty(t *testing.T) {
	engine := NewEngine(ScoringConfig{NegativeOnMiss: false})
	got, err := engine.Delta(800, Miss)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestDeltaRejectsOtherMultipliers(t *testing.T) {
	engine := NewEngine(DefaultScoringConfig())
	for _, m := range []Multiplier{0.25, 2, -1} {
		_, err := engine.Delta(200, m)
		assert.ErrorIs(t, err, ErrInvalidMultiplier)
		assert.False(t, m.Valid())
	}
}

func TestSummarize(t *testing.T) {
	answers := []AnswerRecord{
		{PlayerID: 0, Multiplier: Full, Delta: 200},
		{PlayerID: 1, Multiplier: Miss, Delta: -200},
		{PlayerID: 0, Multiplier: Full, Delta: 400},
		{PlayerID: 1, Multiplier: Half, Delta: 300},
		{PlayerID: 0, Multiplier: Miss, Delta: -1000},
		{PlayerID: 0, Multiplier: Full, Delta: 800},
	}
	s := Summarize(answers)

	assert.Equal(t, Summary{Answered: 4, Correct: 3, Total: 400, Accuracy: 0.75, BestStreak: 2}, s[0])
	assert.Equal(t, Summary{Answered: 2, HalfCredit: 1, Total: 100, Accuracy: 0}, s[1])
}
