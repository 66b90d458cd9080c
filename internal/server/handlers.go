package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/game"
	"github.com/gokatarajesh/trivia-night/internal/game/scoring"
	"github.com/gokatarajesh/trivia-night/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-night/pkg/http/errors"
	ws "github.com/gokatarajesh/trivia-night/pkg/http/ws"
)

type handlers struct {
	deps     Deps
	logger   zerolog.Logger
	validate *validator.Validate
}

type createSessionRequest struct {
	Players int `json:"players" validate:"min=1,max=4"`
}

type selectCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids" validate:"required,min=1,dive,required"`
}

// answerRequest carries either the picked option of a multiple-choice question or a
// self-reported multiplier.
type answerRequest struct {
	Answer     *string  `json:"answer" validate:"required_without=Multiplier"`
	Multiplier *float64 `json:"multiplier" validate:"required_without=Answer"`
}

type resultResponse struct {
	Result  game.Result   `json:"result"`
	Session game.Snapshot `json:"session"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, ping := range h.deps.Checks {
		if err := ping(ctx); err != nil {
			logging.FromContext(r.Context()).Error().Err(err).Str("dependency", name).Msg("dependency ping failed")
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		httperrors.RespondErrorWithDetails(w, http.StatusServiceUnavailable, httperrors.ErrCodeServiceUnavailable, "dependency unavailable", map[string]any{"dependencies": status})
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{"status": "ok", "dependencies": status})
}

func (h *handlers) listCategories(w http.ResponseWriter, _ *http.Request) {
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{"categories": h.deps.Catalog.All()})
}

func (h *handlers) resetHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.History.ResetPlayedTracks(r.Context()); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("reset history failed")
		httperrors.RespondInternalError(w, "could not reset history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	s := h.deps.Sessions.Create(r.Context())
	if err := s.SetupPlayers(req.Players); err != nil {
		h.deps.Sessions.Remove(s.ID())
		respondGameError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, s.Snapshot())
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, s.Snapshot())
}

func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.deps.Sessions.Remove(s.ID())
	if msg, err := ws.NewMessage(ws.TypeClosed, ws.ClosedPayload{SessionID: s.ID(), Reason: "deleted"}); err == nil {
		_ = h.deps.Hub.BroadcastToSession(s.ID(), msg)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) selectCategories(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req selectCategoriesRequest
	if !h.decode(w, r, &req) {
		return
	}
	categories, err := h.deps.Catalog.Resolve(req.CategoryIDs)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnknownCategory, err.Error())
		return
	}
	ticket, err := s.BeginLoading(len(categories))
	if err != nil {
		respondGameError(w, err)
		return
	}
	if err := h.deps.Loads.Enqueue(game.LoadRequest{SessionID: s.ID(), Ticket: ticket, Categories: categories}); err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Str("session_id", s.ID()).Msg("board load not queued")
		_ = s.AbortLoading(ticket, "The server is busy assembling other boards. Try again in a moment.")
		respondGameError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusAccepted, s.Snapshot())
}

func (h *handlers) backToSetup(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, (*game.Session).BackToSetup)
}

func (h *handlers) selectQuestion(w http.ResponseWriter, r *http.Request) {
	qid := chi.URLParam(r, "qid")
	h.act(w, r, func(s *game.Session) error { return s.SelectQuestion(qid) })
}

func (h *handlers) reveal(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, (*game.Session).Reveal)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(s *game.Session) error {
		s.Restart()
		return nil
	})
}

func (h *handlers) answer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		res game.Result
		err error
	)
	if req.Answer != nil {
		res, err = s.ChooseAnswer(*req.Answer)
	} else {
		res, err = s.SubmitAnswer(scoring.Multiplier(*req.Multiplier))
	}
	if err != nil {
		respondGameError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, resultResponse{Result: res, Session: s.Snapshot()})
}

// act runs a state transition and answers with the new snapshot.
func (h *handlers) act(w http.ResponseWriter, r *http.Request, fn func(*game.Session) error) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := fn(s); err != nil {
		respondGameError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, s.Snapshot())
}

func (h *handlers) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	s, err := h.deps.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondGameError(w, err)
		return nil, false
	}
	return s, true
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "request body must be valid JSON")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, verrs[0].Error(), verrs[0].Field())
			return false
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
		return false
	}
	return true
}

func respondGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, err.Error())
	case errors.Is(err, game.ErrQuestionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, err.Error())
	case errors.Is(err, game.ErrInvalidPlayers):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidPlayers, err.Error())
	case errors.Is(err, game.ErrCategoryCount):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeCategoryCount, err.Error())
	case errors.Is(err, game.ErrUnknownAnswer):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnknownAnswer, err.Error())
	case errors.Is(err, game.ErrInvalidMultiplier):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidScore, err.Error())
	case errors.Is(err, game.ErrQuestionAnswered):
		httperrors.RespondConflict(w, httperrors.ErrCodeQuestionAnswered, err.Error())
	case errors.Is(err, game.ErrNotRevealed):
		httperrors.RespondConflict(w, httperrors.ErrCodeNotRevealed, err.Error())
	case errors.Is(err, game.ErrStaleLoad):
		httperrors.RespondConflict(w, httperrors.ErrCodeStaleLoad, err.Error())
	case errors.Is(err, game.ErrInvalidTransition):
		httperrors.RespondConflict(w, httperrors.ErrCodeInvalidTransition, err.Error())
	case errors.Is(err, game.ErrLoadQueueFull):
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeLoadQueueFull, err.Error())
	default:
		httperrors.RespondInternalError(w, "unexpected error")
	}
}
