package question

import (
	"fmt"
	"strings"
	"time"
)

// CategoryKind selects the provider strategy for a category.
type CategoryKind int

const (
	KindUnknown CategoryKind = iota
	KindGeneric
	KindMusic
	KindGeography
	KindMoviePoster
	KindFootballCareer
)

var kindNames = map[CategoryKind]string{
	KindUnknown:        "unknown",
	KindGeneric:        "generic",
	KindMusic:          "music",
	KindGeography:      "geography",
	KindMoviePoster:    "movie_poster",
	KindFootballCareer: "football_career",
}

func (k CategoryKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindForID maps the category id naming convention to a kind. It runs once, when the
// catalog is loaded; everything downstream switches on Category.Kind.
func KindForID(id string) CategoryKind {
	switch {
	case strings.HasPrefix(id, "otdb_"), strings.HasPrefix(id, "tapi_"):
		return KindGeneric
	case strings.HasPrefix(id, "music_"):
		return KindMusic
	case strings.HasPrefix(id, "geo_"):
		return KindGeography
	case id == "mov_posters":
		return KindMoviePoster
	case id == "football_career":
		return KindFootballCareer
	default:
		return KindUnknown
	}
}

// Category is a selectable board column source. Catalog entries are static.
type Category struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Emoji string       `json:"emoji"`
	Kind  CategoryKind `json:"-"`

	// Provider parameters.
	Source   string `json:"source,omitempty"`    // generic backend: "opentdb" (default) or "triviaapi"
	SourceID string `json:"source_id,omitempty"` // upstream category id or slug
	Decade   int    `json:"decade,omitempty"`    // music: first year of the decade, 0 = any
	Variant  string `json:"variant,omitempty"`   // music: "soundtrack"; geography: "flags" | "capitals"
}

// Question types.
const (
	TypeText        = "text"
	TypeMultiple    = "multiple"
	TypeMusic       = "music"
	TypeHonorSystem = "honor-system"
)

// Difficulty labels. Informational only; the point value drives scoring.
const (
	DifficultyEasy        = "easy"
	DifficultyMedium      = "medium"
	DifficultyHard        = "hard"
	DifficultyHonorSystem = "honor-system"
)

// Media types.
const (
	MediaText          = "text"
	MediaAudio         = "audio"
	MediaImage         = "image"
	MediaImageSequence = "image_sequence"
	MediaTextSequence  = "text_sequence"
)

// PointValues are the slot values of a column, in slot order.
var PointValues = [SlotCount]int{200, 400, 600, 800, 1000}

// SlotCount is the number of questions in a column.
const SlotCount = 5

// AnswerReveal is shown after an honor-system or music question.
type AnswerReveal struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   string `json:"year,omitempty"`
}

// Question is the uniform question every provider produces.
type Question struct {
	ID               string   `json:"id"`
	Category         string   `json:"category" validate:"required"`
	Type             string   `json:"type" validate:"oneof=text multiple music honor-system"`
	Difficulty       string   `json:"difficulty" validate:"oneof=easy medium hard honor-system"`
	MediaType        string   `json:"mediaType" validate:"oneof=text audio image image_sequence text_sequence"`
	Prompt           string   `json:"question" validate:"required"`
	CorrectAnswer    string   `json:"correct_answer" validate:"required_if=Type multiple,required_if=Type text"`
	IncorrectAnswers []string `json:"incorrect_answers" validate:"required_if=Type multiple,required_if=Type text,dive,required"`
	AllAnswers       []string `json:"all_answers"`
	PointValue       int      `json:"pointValue"`
	IsAnswered       bool     `json:"isAnswered"`

	AudioURL      string        `json:"audioUrl,omitempty" validate:"required_if=MediaType audio"`
	ImageURL      string        `json:"imageUrl,omitempty" validate:"required_if=MediaType image"`
	ImageURLs     []string      `json:"imageUrls,omitempty" validate:"required_if=MediaType image_sequence,dive,required"`
	ClubList      []string      `json:"clubList,omitempty" validate:"required_if=MediaType text_sequence"`
	InfoText      string        `json:"infoText,omitempty"`
	TimerDuration int           `json:"timerDuration,omitempty"` // seconds
	AnswerReveal  *AnswerReveal `json:"answerReveal,omitempty"`
	StrictScoring bool          `json:"strictScoring,omitempty"`

	HistoryKey string `json:"-" validate:"required"`
	Bucket     string `json:"-"`
	Rank       int    `json:"-"` // provider ordering hint, lower is easier
}

// IsMultipleChoice reports whether the question is resolved by picking one of all_answers.
func (q *Question) IsMultipleChoice() bool {
	return q.Type == TypeMultiple || q.Type == TypeText
}

// Timer returns the countdown for the question, falling back to the media default.
func (q *Question) Timer() time.Duration {
	if q.TimerDuration > 0 {
		return time.Duration(q.TimerDuration) * time.Second
	}
	return DefaultTimer(q.MediaType)
}

// DefaultTimer is the countdown used when a provider does not set one.
func DefaultTimer(mediaType string) time.Duration {
	switch mediaType {
	case MediaImage:
		return 15 * time.Second
	case MediaAudio, MediaImageSequence, MediaTextSequence:
		return 30 * time.Second
	default:
		return 20 * time.Second
	}
}

// Column is one category's ladder of exactly SlotCount questions.
type Column struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}
