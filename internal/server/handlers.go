package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BigFish003/MTGnew/internal"
	"github.com/BigFish003/MTGnew/internal/draft"
	"github.com/BigFish003/MTGnew/internal/storage"
)

var errUnknownDraft = errors.New("unknown draft session")

type createDraftRequest struct {
	Seed *int64 `json:"seed"`
}

type stateResponse struct {
	ID          string      `json:"id"`
	Observation [][]float32 `json:"observation"`
	Mask        []bool      `json:"mask"`
	Terminal    bool        `json:"terminal"`
	Accepted    *bool       `json:"accepted,omitempty"`
}

type pickRequest struct {
	Slot int `json:"slot"`
}

type poolResponse struct {
	Picks []string `json:"picks"`
}

type deckResponse struct {
	Deck []string `json:"deck"`
}

func (s *Server) createDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	session, err := s.manager.Create(seed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	internal.GetLogger().Infow("draft created", "session", session.ID, "seed", seed)

	writeJSON(w, http.StatusCreated, s.stateOf(session, nil))
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	session, ok := s.manager.Get(chi.URLParam(r, "draftID"))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownDraft)
		return
	}
	writeJSON(w, http.StatusOK, s.stateOf(session, nil))
}

func (s *Server) resetDraft(w http.ResponseWriter, r *http.Request) {
	session, ok := s.manager.Get(chi.URLParam(r, "draftID"))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownDraft)
		return
	}

	var req createDraftRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	session.Reset(seed)
	writeJSON(w, http.StatusOK, s.stateOf(session, nil))
}

func (s *Server) pick(w http.ResponseWriter, r *http.Request) {
	session, ok := s.manager.Get(chi.URLParam(r, "draftID"))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownDraft)
		return
	}

	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	_, outcome := session.Step(req.Slot)
	writeJSON(w, http.StatusOK, s.stateOf(session, &outcome.Accepted))
}

func (s *Server) mask(w http.ResponseWriter, r *http.Request) {
	session, ok := s.manager.Get(chi.URLParam(r, "draftID"))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownDraft)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"mask": session.Mask()})
}

func (s *Server) pool(w http.ResponseWriter, r *http.Request) {
	session, ok := s.manager.Get(chi.URLParam(r, "draftID"))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownDraft)
		return
	}
	writeJSON(w, http.StatusOK, poolResponse{Picks: s.index.Names(session.Pool())})
}

func (s *Server) buildDeck(w http.ResponseWriter, r *http.Request) {
	session, ok := s.manager.Get(chi.URLParam(r, "draftID"))
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownDraft)
		return
	}

	deck := session.BuildDeck()
	names := s.index.Names(deck)

	if s.store != nil && session.Terminal() {
		rec := &storage.DraftRecord{
			ID:        session.ID,
			Seed:      session.Seed(),
			Picks:     s.index.Names(session.Pool()),
			Deck:      names,
			CreatedAt: time.Now(),
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.store.SaveDraft(ctx, rec); err != nil {
			internal.GetLogger().Errorw("failed to persist draft", "session", session.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, deckResponse{Deck: names})
}

func (s *Server) deleteDraft(w http.ResponseWriter, r *http.Request) {
	s.manager.Remove(chi.URLParam(r, "draftID"))
	w.WriteHeader(http.StatusNoContent)
}

// stateOf snapshots a session into the wire representation. accepted is nil
// except in response to a submitted action.
func (s *Server) stateOf(session *Session, accepted *bool) stateResponse {
	return stateResponse{
		ID:          session.ID,
		Observation: obsRows(session.Observe()),
		Mask:        session.Mask(),
		Terminal:    session.Terminal(),
		Accepted:    accepted,
	}
}

// obsRows flattens an observation into row slices for JSON encoding.
func obsRows(obs *draft.Observation) [][]float32 {
	rows := make([][]float32, obs.Rows)
	for r := range rows {
		rows[r] = obs.Row(r)
	}
	return rows
}
