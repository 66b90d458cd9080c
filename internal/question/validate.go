package question

import (
	"sort"

	"github.com/go-playground/validator/v10"
)

// Validator rejects candidates that miss the fields their type and media type need.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterStructValidation(answerSetValidation, Question{})
	return &Validator{validate: v}
}

// Validate checks a single candidate.
func (v *Validator) Validate(q *Question) error {
	return v.validate.Struct(q)
}

// Keep filters out invalid candidates, preserving order.
func (v *Validator) Keep(candidates []Question) (valid []Question, dropped int) {
	valid = candidates[:0:0]
	for i := range candidates {
		if err := v.Validate(&candidates[i]); err != nil {
			dropped++
			continue
		}
		valid = append(valid, candidates[i])
	}
	return valid, dropped
}

func answerSetValidation(sl validator.StructLevel) {
	q := sl.Current().Interface().(Question)
	if !q.IsMultipleChoice() {
		return
	}
	if !IsAnswerPermutation(q.AllAnswers, q.CorrectAnswer, q.IncorrectAnswers) {
		sl.ReportError(q.AllAnswers, "AllAnswers", "all_answers", "permutation", "")
	}
}

// IsAnswerPermutation reports whether all is exactly {correct} ∪ incorrect in some order.
func IsAnswerPermutation(all []string, correct string, incorrect []string) bool {
	want := append([]string{correct}, incorrect...)
	if len(all) != len(want) {
		return false
	}
	got := append([]string(nil), all...)
	sort.Strings(got)
	sort.Strings(want)
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// ShuffledAnswers computes all_answers once, at question creation.
func ShuffledAnswers(s *Shuffler, correct string, incorrect []string) []string {
	return Shuffle(s, append([]string{correct}, incorrect...))
}
