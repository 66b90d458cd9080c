package scoring

import (
	"errors"
	"fmt"
)

// Multiplier is the share of a question's point value a player earns.
type Multiplier float64

const (
	Miss Multiplier = 0
	Half Multiplier = 0.5
	Full Multiplier = 1
)

// ErrInvalidMultiplier is returned for anything outside {0, 0.5, 1}.
var ErrInvalidMultiplier = errors.New("multiplier must be 0, 0.5 or 1")

// Valid reports whether m is one of the three allowed values.
func (m Multiplier) Valid() bool {
	return m == Miss || m == Half || m == Full
}

// ScoringConfig holds configurable scoring rules.
type ScoringConfig struct {
	// NegativeOnMiss deducts the full point value on a miss. When false a miss scores zero.
	NegativeOnMiss bool
}

// DefaultScoringConfig returns production defaults.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{NegativeOnMiss: true}
}

// Engine applies the score delta law.
type Engine struct {
	config ScoringConfig
}

// NewEngine creates a scoring engine with the provided config.
func NewEngine(config ScoringConfig) *Engine {
	return &Engine{config: config}
}

// Delta computes the score change for a resolved question:
//   - Full → +pointValue
//   - Half → +floor(pointValue / 2)
//   - Miss → -pointValue (or 0 when NegativeOnMiss is off)
func (e *Engine) Delta(pointValue int, m Multiplier) (int, error) {
	switch m {
	case Full:
		return pointValue, nil
	case Half:
		return pointValue / 2, nil
	case Miss:
		if e.config.NegativeOnMiss {
			return -pointValue, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: got %v", ErrInvalidMultiplier, float64(m))
	}
}

// AnswerRecord is one resolved question, as logged by a session.
type AnswerRecord struct {
	PlayerID   int        `json:"player_id"`
	QuestionID string     `json:"question_id"`
	PointValue int        `json:"point_value"`
	Multiplier Multiplier `json:"multiplier"`
	Delta      int        `json:"delta"`
	TimedOut   bool       `json:"timed_out,omitempty"`
}

// Summary aggregates one player's answers.
type Summary struct {
	Answered   int     `json:"answered"`
	Correct    int     `json:"correct"`
	HalfCredit int     `json:"half_credit"`
	Total      int     `json:"total"`
	Accuracy   float64 `json:"accuracy"`
	BestStreak int     `json:"best_streak"`
}

// Summarize aggregates answers per player. A half-credit answer breaks a streak.
func Summarize(answers []AnswerRecord) map[int]Summary {
	out := make(map[int]Summary)
	streaks := make(map[int]int)
	for _, a := range answers {
		s := out[a.PlayerID]
		s.Answered++
		s.Total += a.Delta
		switch a.Multiplier {
		case Full:
			s.Correct++
			streaks[a.PlayerID]++
			if streaks[a.PlayerID] > s.BestStreak {
				s.BestStreak = streaks[a.PlayerID]
			}
		case Half:
			s.HalfCredit++
			streaks[a.PlayerID] = 0
		default:
			streaks[a.PlayerID] = 0
		}
		s.Accuracy = float64(s.Correct) / float64(s.Answered)
		out[a.PlayerID] = s
	}
	return out
}
