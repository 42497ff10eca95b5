// HTTP command surface for the game engine. The chat transport calls
// these endpoints; each maps one-to-one onto a registry operation.
//
//	POST   /sessions/{mode}/{key}        create a session in a chat
//	GET    /sessions/{mode}/{key}        session snapshot
//	DELETE /sessions/{mode}/{key}        cancel and forget the session
//	POST   /sessions/{mode}/{key}/join   join a forming group session
//	POST   /sessions/{mode}/{key}/start  start a forming group session
//	POST   /sessions/{mode}/{key}/code   set a secret code
//	POST   /sessions/{mode}/{key}/guess  submit a guess
package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Abel5173/pulsecode/internal/manager"
	"github.com/Abel5173/pulsecode/pulse"
)

type Server struct {
	r   *chi.Mux
	reg *manager.Registry
	log zerolog.Logger
}

func New(reg *manager.Registry, log zerolog.Logger) *Server {
	s := &Server{r: chi.NewRouter(), reg: reg, log: log}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(15 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.requestLog)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/sessions/{mode}", func(r chi.Router) {
		r.Route("/{key}", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Get("/", s.handleStatus)
			r.Delete("/", s.handleEnd)
			r.Post("/join", s.handleJoin)
			r.Post("/start", s.handleStart)
			r.Post("/code", s.handleSetCode)
			r.Post("/guess", s.handleGuess)
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the mux for tests.
func (s *Server) Router() chi.Router { return s.r }

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// ----------------------------- requests ------------------------------------

type createReq struct {
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	// pvp only
	OpponentID   string `json:"opponent_id,omitempty"`
	OpponentName string `json:"opponent_name,omitempty"`
	// group_pvp only
	TeamA string `json:"team_a,omitempty"`
	TeamB string `json:"team_b,omitempty"`
}

type joinReq struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team,omitempty"`
}

type codeReq struct {
	PlayerID string `json:"player_id"`
	Code     string `json:"code"`
}

type guessReq struct {
	PlayerID string `json:"player_id"`
	Guess    string `json:"guess"`
}

type guessRes struct {
	Outcome   pulse.GuessOutcome  `json:"outcome"`
	Narration string              `json:"narration,omitempty"`
	AIMove    *pulse.GuessOutcome `json:"ai_move,omitempty"`
}

// ----------------------------- handlers ------------------------------------

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(w, r)
	if !ok {
		return
	}
	var req createReq
	if !decode(w, r, &req) {
		return
	}
	key := chi.URLParam(r, "key")
	var (
		snap pulse.Snapshot
		err  error
	)
	switch mode {
	case pulse.ModeArchitect:
		snap, err = s.reg.CreateArchitect(r.Context(), key, req.PlayerID, req.PlayerName)
	case pulse.ModePVP:
		snap, err = s.reg.CreatePVP(r.Context(), key, req.PlayerID, req.PlayerName, req.OpponentID, req.OpponentName)
	case pulse.ModeGroupAI:
		snap, err = s.reg.CreateGroupAI(r.Context(), key, req.PlayerID, req.PlayerName)
	case pulse.ModeGroupPVP:
		snap, err = s.reg.CreateGroupPVP(r.Context(), key, req.TeamA, req.TeamB)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(w, r)
	if !ok {
		return
	}
	snap, err := s.reg.Status(mode, chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(w, r)
	if !ok {
		return
	}
	if err := s.reg.End(r.Context(), mode, chi.URLParam(r, "key")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ended": true})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(w, r)
	if !ok {
		return
	}
	var req joinReq
	if !decode(w, r, &req) {
		return
	}
	key := chi.URLParam(r, "key")
	if err := s.reg.Join(r.Context(), mode, key, req.PlayerID, req.PlayerName, req.Team); err != nil {
		writeDomainError(w, err)
		return
	}
	snap, err := s.reg.Status(mode, key)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	if err := s.reg.Start(r.Context(), mode, key); err != nil {
		writeDomainError(w, err)
		return
	}
	snap, err := s.reg.Status(mode, key)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSetCode(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(w, r)
	if !ok {
		return
	}
	var req codeReq
	if !decode(w, r, &req) {
		return
	}
	set, err := s.reg.SetCode(r.Context(), mode, chi.URLParam(r, "key"), req.PlayerID, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": string(set)})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(w, r)
	if !ok {
		return
	}
	var req guessReq
	if !decode(w, r, &req) {
		return
	}
	rep, err := s.reg.Guess(r.Context(), mode, chi.URLParam(r, "key"), req.PlayerID, req.Guess)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{Outcome: rep.Outcome, Narration: rep.Narration, AIMove: rep.AIMove})
}

// ----------------------------- plumbing ------------------------------------

func parseMode(w http.ResponseWriter, r *http.Request) (pulse.Mode, bool) {
	switch m := pulse.Mode(chi.URLParam(r, "mode")); m {
	case pulse.ModeArchitect, pulse.ModePVP, pulse.ModeGroupAI, pulse.ModeGroupPVP:
		return m, true
	default:
		writeError(w, http.StatusBadRequest, "unknown mode")
		return "", false
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps engine and registry errors onto HTTP statuses.
// Every rejection is per-request; nothing here is fatal to the session.
func writeDomainError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, manager.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, manager.ErrSessionExists):
		status = http.StatusConflict
	case errors.Is(err, pulse.ErrInvalidGuess):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, pulse.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, pulse.ErrNotYourTurn),
		errors.Is(err, pulse.ErrLockedOut),
		errors.Is(err, pulse.ErrWrongPhase),
		errors.Is(err, pulse.ErrSessionOver),
		errors.Is(err, pulse.ErrCodeAlreadySet),
		errors.Is(err, pulse.ErrSessionFull),
		errors.Is(err, pulse.ErrAlreadyJoined),
		errors.Is(err, pulse.ErrNotEnoughPlayer):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}
	writeError(w, status, err.Error())
}
