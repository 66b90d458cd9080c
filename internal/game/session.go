package game

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/gokatarajesh/trivia-night/internal/game/scoring"
	"github.com/gokatarajesh/trivia-night/internal/question"
)

// Options configures a session.
type Options struct {
	MinCategories int
	MaxCategories int
	// AutoTimers arms a countdown whenever a question opens.
	AutoTimers bool
	Scoring    scoring.ScoringConfig
	// OnChange receives a snapshot after every state change, outside the session lock.
	OnChange func(Snapshot)
}

// DefaultOptions mirrors the production config defaults.
func DefaultOptions() Options {
	return Options{
		MinCategories: 4,
		MaxCategories: 6,
		AutoTimers:    true,
		Scoring:       scoring.DefaultScoringConfig(),
	}
}

type active struct {
	col, row int
	chosen   string
	revealed bool
	deadline time.Time
}

// Session is one game on one screen: SETUP → CATEGORY_SELECT → LOADING → BOARD ⇄ QUESTION
// → GAME_OVER → SETUP. All methods are safe for concurrent use; timers fire on their own
// goroutines.
type Session struct {
	id     string
	opts   Options
	engine *scoring.Engine
	now    func() time.Time

	mu         sync.Mutex
	phase      Phase
	players    []Player
	turn       int
	columns    []question.Column
	active     *active
	timer      *time.Timer
	timerSeq   uint64
	loadTicket uint64
	answers    []scoring.AnswerRecord
	notice     string
	version    uint64
	updatedAt  time.Time
}

func NewSession(id string, opts Options) *Session {
	if opts.MaxCategories < 1 {
		opts.MaxCategories = DefaultOptions().MaxCategories
	}
	if opts.MinCategories < 1 || opts.MinCategories > opts.MaxCategories {
		opts.MinCategories = 1
	}
	return &Session{
		id:        id,
		opts:      opts,
		engine:    scoring.NewEngine(opts.Scoring),
		now:       time.Now,
		phase:     PhaseSetup,
		updatedAt: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// mutate runs fn under the lock and publishes a snapshot if anything changed.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	before := s.version
	err := fn()
	changed := s.version != before
	var snap Snapshot
	if changed && s.opts.OnChange != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if changed && s.opts.OnChange != nil {
		s.opts.OnChange(snap)
	}
	return err
}

func (s *Session) touch() {
	s.version++
	s.updatedAt = s.now()
}

// SetupPlayers seats n players from the fixed roster and moves to category selection.
func (s *Session) SetupPlayers(n int) error {
	return s.mutate(func() error {
		if s.phase != PhaseSetup {
			return s.transitionErr("setup players")
		}
		if n < 1 || n > MaxPlayers {
			return ErrInvalidPlayers
		}
		s.players = newPlayers(n)
		s.turn = 0
		s.notice = ""
		s.phase = PhaseCategorySelect
		s.touch()
		return nil
	})
}

// BackToSetup leaves category selection and forgets the roster.
func (s *Session) BackToSetup() error {
	return s.mutate(func() error {
		if s.phase != PhaseCategorySelect {
			return s.transitionErr("back to setup")
		}
		s.players = nil
		s.notice = ""
		s.phase = PhaseSetup
		s.touch()
		return nil
	})
}

// BeginLoading enters LOADING for count selected categories. The returned ticket must be
// handed to CompleteLoading; results for an older ticket are ignored.
func (s *Session) BeginLoading(count int) (uint64, error) {
	var ticket uint64
	err := s.mutate(func() error {
		if s.phase != PhaseCategorySelect {
			return s.transitionErr("begin loading")
		}
		if count < s.opts.MinCategories || count > s.opts.MaxCategories {
			return fmt.Errorf("%w: got %d, want %d..%d", ErrCategoryCount, count, s.opts.MinCategories, s.opts.MaxCategories)
		}
		s.loadTicket++
		ticket = s.loadTicket
		s.notice = ""
		s.phase = PhaseLoading
		s.touch()
		return nil
	})
	return ticket, err
}

// CompleteLoading installs the assembled board. With zero usable columns the session
// returns to category selection and ErrNoColumns is reported.
func (s *Session) CompleteLoading(ticket uint64, columns []question.Column) error {
	return s.mutate(func() error {
		if s.phase != PhaseLoading || ticket != s.loadTicket {
			return ErrStaleLoad
		}
		board := make([]question.Column, 0, len(columns))
		for _, c := range columns {
			if len(c.Questions) != question.SlotCount {
				continue
			}
			board = append(board, c)
		}
		s.touch()
		if len(board) == 0 {
			s.phase = PhaseCategorySelect
			s.notice = "No category could be loaded. Pick again or try different categories."
			return ErrNoColumns
		}
		s.columns = board
		s.turn = 0
		s.answers = nil
		s.phase = PhaseBoard
		return nil
	})
}

// AbortLoading returns a loading session to category selection, e.g. when the load could
// not be queued.
func (s *Session) AbortLoading(ticket uint64, reason string) error {
	return s.mutate(func() error {
		if s.phase != PhaseLoading || ticket != s.loadTicket {
			return ErrStaleLoad
		}
		s.phase = PhaseCategorySelect
		s.notice = reason
		s.touch()
		return nil
	})
}

// SelectQuestion opens an unanswered question and arms its timer.
func (s *Session) SelectQuestion(id string) error {
	return s.mutate(func() error {
		if s.phase != PhaseBoard {
			return s.transitionErr("select question")
		}
		col, row, ok := s.find(id)
		if !ok {
			return ErrQuestionNotFound
		}
		if s.columns[col].Questions[row].IsAnswered {
			return ErrQuestionAnswered
		}
		s.active = &active{col: col, row: row}
		s.phase = PhaseQuestion
		s.armTimerLocked()
		s.touch()
		return nil
	})
}

// ChooseAnswer resolves a multiple-choice question: the right answer scores in full,
// anything else is a miss.
func (s *Session) ChooseAnswer(answer string) (Result, error) {
	var res Result
	err := s.mutate(func() error {
		q, err := s.activeQuestionLocked()
		if err != nil {
			return err
		}
		if !q.IsMultipleChoice() {
			return s.transitionErr("choose answer on honor-system question")
		}
		if !slices.Contains(q.AllAnswers, answer) {
			return fmt.Errorf("%w: %q", ErrUnknownAnswer, answer)
		}
		m := scoring.Miss
		if answer == q.CorrectAnswer {
			m = scoring.Full
		}
		s.active.chosen = answer
		res, err = s.resolveLocked(m, false)
		return err
	})
	return res, err
}

// Reveal shows the answer of an honor-system or music question so it can be scored.
func (s *Session) Reveal() error {
	return s.mutate(func() error {
		q, err := s.activeQuestionLocked()
		if err != nil {
			return err
		}
		if q.IsMultipleChoice() {
			return s.transitionErr("reveal multiple-choice question")
		}
		if s.active.revealed {
			return nil
		}
		s.active.revealed = true
		s.stopTimerLocked()
		s.touch()
		return nil
	})
}

// SubmitAnswer resolves the active question with a self-reported multiplier. Multiple
// choice accepts only 0 or 1. Honor-system and music need the answer revealed first and
// accept 0, 0.5 or 1, except strict questions which have no half credit.
func (s *Session) SubmitAnswer(m scoring.Multiplier) (Result, error) {
	var res Result
	err := s.mutate(func() error {
		q, err := s.activeQuestionLocked()
		if err != nil {
			return err
		}
		if !m.Valid() {
			return fmt.Errorf("%w: got %v", ErrInvalidMultiplier, float64(m))
		}
		if m == scoring.Half && (q.IsMultipleChoice() || q.StrictScoring) {
			return fmt.Errorf("%w: no half credit for this question", ErrInvalidMultiplier)
		}
		if !q.IsMultipleChoice() && !s.active.revealed {
			return ErrNotRevealed
		}
		res, err = s.resolveLocked(m, false)
		return err
	})
	return res, err
}

// Expire handles the countdown of question id running out. Multiple choice resolves as a
// miss; honor-system and music reveal the answer. Expiring anything but the active
// question is a no-op.
func (s *Session) Expire(id string) error {
	return s.mutate(func() error {
		if s.phase != PhaseQuestion || s.active == nil {
			return nil
		}
		q := &s.columns[s.active.col].Questions[s.active.row]
		if q.ID != id {
			return nil
		}
		return s.expireLocked()
	})
}

func (s *Session) expireTimer(seq uint64) {
	_ = s.mutate(func() error {
		if seq != s.timerSeq || s.phase != PhaseQuestion || s.active == nil {
			return nil
		}
		return s.expireLocked()
	})
}

func (s *Session) expireLocked() error {
	s.stopTimerLocked()
	q := s.columns[s.active.col].Questions[s.active.row]
	if q.IsMultipleChoice() {
		_, err := s.resolveLocked(scoring.Miss, true)
		return err
	}
	if !s.active.revealed {
		s.active.revealed = true
		s.touch()
	}
	return nil
}

// IsGameOver reports whether every question of every column is answered.
func (s *Session) IsGameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allAnsweredLocked()
}

// Ranking orders players by score, highest first; ties keep seat order.
func (s *Session) Ranking() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rankingLocked()
}

// Restart tears the game down from any phase and returns to SETUP.
func (s *Session) Restart() {
	_ = s.mutate(func() error {
		s.stopTimerLocked()
		s.players = nil
		s.columns = nil
		s.active = nil
		s.answers = nil
		s.turn = 0
		s.notice = ""
		// Invalidate any in-flight load.
		s.loadTicket++
		s.phase = PhaseSetup
		s.touch()
		return nil
	})
}

// Snapshot returns a deep copy of the session for display.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// UpdatedAt is the time of the last state change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) resolveLocked(m scoring.Multiplier, timedOut bool) (Result, error) {
	q := &s.columns[s.active.col].Questions[s.active.row]
	if q.IsAnswered {
		return Result{}, ErrQuestionAnswered
	}
	delta, err := s.engine.Delta(q.PointValue, m)
	if err != nil {
		return Result{}, err
	}

	player := &s.players[s.turn]
	player.Score += delta
	q.IsAnswered = true
	s.answers = append(s.answers, scoring.AnswerRecord{
		PlayerID:   player.ID,
		QuestionID: q.ID,
		PointValue: q.PointValue,
		Multiplier: m,
		Delta:      delta,
		TimedOut:   timedOut,
	})

	res := Result{
		PlayerID:   player.ID,
		QuestionID: q.ID,
		Multiplier: m,
		Delta:      delta,
		Score:      player.Score,
		TimedOut:   timedOut,
	}

	s.turn = (s.turn + 1) % len(s.players)
	s.stopTimerLocked()
	s.active = nil
	s.phase = PhaseBoard
	if s.allAnsweredLocked() {
		s.phase = PhaseGameOver
	}
	s.touch()

	res.NextTurn = s.turn
	res.GameOver = s.phase == PhaseGameOver
	return res, nil
}

func (s *Session) activeQuestionLocked() (*question.Question, error) {
	if s.phase != PhaseQuestion || s.active == nil {
		return nil, s.transitionErr("answer")
	}
	return &s.columns[s.active.col].Questions[s.active.row], nil
}

func (s *Session) armTimerLocked() {
	s.stopTimerLocked()
	if !s.opts.AutoTimers {
		return
	}
	q := s.columns[s.active.col].Questions[s.active.row]
	d := q.Timer()
	s.active.deadline = s.now().Add(d)
	s.timerSeq++
	seq := s.timerSeq
	s.timer = time.AfterFunc(d, func() { s.expireTimer(seq) })
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// A callback already past Stop sees a newer sequence and does nothing.
	s.timerSeq++
}

func (s *Session) find(id string) (col, row int, ok bool) {
	for c := range s.columns {
		for r := range s.columns[c].Questions {
			if s.columns[c].Questions[r].ID == id {
				return c, r, true
			}
		}
	}
	return 0, 0, false
}

func (s *Session) allAnsweredLocked() bool {
	if len(s.columns) == 0 {
		return false
	}
	for _, c := range s.columns {
		for _, q := range c.Questions {
			if !q.IsAnswered {
				return false
			}
		}
	}
	return true
}

func (s *Session) rankingLocked() []Player {
	out := make([]Player, len(s.players))
	copy(out, s.players)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (s *Session) transitionErr(op string) error {
	return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, op, s.phase)
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:          s.id,
		Phase:       s.phase,
		Players:     append([]Player(nil), s.players...),
		CurrentTurn: s.turn,
		Notice:      s.notice,
		Version:     s.version,
		UpdatedAt:   s.updatedAt,
	}
	if s.columns != nil {
		snap.Columns = make([]question.Column, len(s.columns))
		for i, c := range s.columns {
			snap.Columns[i] = question.Column{
				Title:     c.Title,
				Questions: append([]question.Question(nil), c.Questions...),
			}
		}
	}
	if s.active != nil {
		a := &ActiveQuestion{
			QuestionID:   s.columns[s.active.col].Questions[s.active.row].ID,
			Column:       s.active.col,
			Row:          s.active.row,
			Revealed:     s.active.revealed,
			ChosenAnswer: s.active.chosen,
		}
		if !s.active.deadline.IsZero() {
			d := s.active.deadline
			a.Deadline = &d
		}
		snap.Active = a
	}
	if s.phase == PhaseGameOver {
		snap.Ranking = s.rankingLocked()
		snap.Summary = scoring.Summarize(s.answers)
	}
	return snap
}
