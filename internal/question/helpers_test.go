package question

import (
	"fmt"

	"github.com/rs/zerolog"
)

var testLogger = zerolog.Nop()

func testShuffler() *Shuffler {
	return NewSeededShuffler(42)
}

// mcCandidate builds a valid multiple-choice candidate.
func mcCandidate(s *Shuffler, key, bucket string) Question {
	correct := "right " + key
	incorrect := []string{"wrong a", "wrong b", "wrong c"}
	return Question{
		Category:         "Test",
		Type:             TypeMultiple,
		Difficulty:       DifficultyMedium,
		MediaType:        MediaText,
		Prompt:           fmt.Sprintf("Question %s?", key),
		CorrectAnswer:    correct,
		IncorrectAnswers: incorrect,
		AllAnswers:       ShuffledAnswers(s, correct, incorrect),
		HistoryKey:       key,
		Bucket:           bucket,
	}
}

// mcCandidates builds n candidates in one bucket with keys prefix-0..prefix-(n-1).
func mcCandidates(s *Shuffler, prefix, bucket string, n int) []Question {
	out := make([]Question, n)
	for i := range out {
		out[i] = mcCandidate(s, fmt.Sprintf("%s-%d", prefix, i), bucket)
	}
	return out
}
