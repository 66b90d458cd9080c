package game

import (
	"errors"
	"time"

	"github.com/gokatarajesh/trivia-night/internal/game/scoring"
	"github.com/gokatarajesh/trivia-night/internal/question"
)

// Phase is the session state.
type Phase string

const (
	PhaseSetup          Phase = "SETUP"
	PhaseCategorySelect Phase = "CATEGORY_SELECT"
	PhaseLoading        Phase = "LOADING"
	PhaseBoard          Phase = "BOARD"
	PhaseQuestion       Phase = "QUESTION"
	PhaseGameOver       Phase = "GAME_OVER"
)

const MaxPlayers = 4

var (
	ErrInvalidTransition = errors.New("operation not allowed in current phase")
	ErrQuestionAnswered  = errors.New("question already answered")
	ErrQuestionNotFound  = errors.New("question not on the board")
	ErrNotRevealed       = errors.New("answer not revealed yet")
	ErrUnknownAnswer     = errors.New("answer is not one of the choices")
	ErrInvalidMultiplier = scoring.ErrInvalidMultiplier
	ErrNoColumns         = errors.New("no category could be loaded")
	ErrStaleLoad         = errors.New("load result no longer wanted")
	ErrInvalidPlayers    = errors.New("player count must be between 1 and 4")
	ErrCategoryCount     = errors.New("category count out of range")
	ErrSessionNotFound   = errors.New("session not found")
)

// Player is one seat at the table. Score is signed and has no floor.
type Player struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Score  int    `json:"score"`
}

type rosterEntry struct {
	name   string
	avatar string
}

var roster = [MaxPlayers]rosterEntry{
	{"Fox", "🦊"},
	{"Lion", "🦁"},
	{"Panda", "🐼"},
	{"Koala", "🐨"},
}

func newPlayers(n int) []Player {
	players := make([]Player, n)
	for i := range players {
		players[i] = Player{ID: i, Name: roster[i].name, Avatar: roster[i].avatar}
	}
	return players
}

// Result describes a resolved question.
type Result struct {
	PlayerID   int                `json:"player_id"`
	QuestionID string             `json:"question_id"`
	Multiplier scoring.Multiplier `json:"multiplier"`
	Delta      int                `json:"delta"`
	Score      int                `json:"score"`
	TimedOut   bool               `json:"timed_out,omitempty"`
	NextTurn   int                `json:"next_turn"`
	GameOver   bool               `json:"game_over"`
}

// ActiveQuestion is the question currently on screen.
type ActiveQuestion struct {
	QuestionID   string     `json:"question_id"`
	Column       int        `json:"column"`
	Row          int        `json:"row"`
	Revealed     bool       `json:"revealed"`
	ChosenAnswer string     `json:"chosen_answer,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// Snapshot is a read-only copy of a session for display.
type Snapshot struct {
	ID          string                  `json:"id"`
	Phase       Phase                   `json:"phase"`
	Players     []Player                `json:"players"`
	CurrentTurn int                     `json:"current_turn"`
	Columns     []question.Column       `json:"columns,omitempty"`
	Active      *ActiveQuestion         `json:"active,omitempty"`
	Ranking     []Player                `json:"ranking,omitempty"`
	Summary     map[int]scoring.Summary `json:"summary,omitempty"`
	Notice      string                  `json:"notice,omitempty"`
	Version     uint64                  `json:"version"`
	UpdatedAt   time.Time               `json:"updated_at"`
}
