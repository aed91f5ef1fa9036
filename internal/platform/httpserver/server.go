package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	votingengine "quorum/contexts/polling/voting-engine"
	votingerrors "quorum/contexts/polling/voting-engine/domain/errors"
	votinghttp "quorum/contexts/polling/voting-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "quorum/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	voting votingengine.Module
}

func New(voting votingengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		voting: voting,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /vote", s.handleCastVote)
	s.mux.HandleFunc("GET /polls/{poll_id}/results", s.handlePollResults)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req votinghttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	// Account identity is asserted by the upstream auth layer; link voters
	// carry only their token.
	voterID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	organizationID := strings.TrimSpace(r.Header.Get("X-Organization-Id"))
	if voterID == "" && strings.TrimSpace(req.Token) == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_credential", "X-User-Id header or vote token is required")
		return
	}

	resp, err := s.voting.Handler.CastVoteHandler(r.Context(), voterID, organizationID, req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handlePollResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("poll_id")
	resp, err := s.voting.Handler.PollResultsHandler(r.Context(), pollID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrPollNotFound):
		writeVotingError(w, http.StatusNotFound, "poll_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrVoteLinkNotFound):
		writeVotingError(w, http.StatusNotFound, "vote_link_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrVoteLinkUsed):
		writeVotingError(w, http.StatusConflict, "vote_link_used", err.Error())
	case errors.Is(err, votingerrors.ErrAlreadyVoted):
		writeVotingError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, votingerrors.ErrForbidden):
		writeVotingError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, votingerrors.ErrPollClosed):
		writeVotingError(w, http.StatusUnprocessableEntity, "poll_closed", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidChoice),
		errors.Is(err, votingerrors.ErrChoiceNotFound):
		writeVotingError(w, http.StatusUnprocessableEntity, "invalid_choice", err.Error())
	case errors.Is(err, votingerrors.ErrResultsNotAvailable):
		writeVotingError(w, http.StatusConflict, "results_not_available", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidVoteInput):
		writeVotingError(w, http.StatusBadRequest, "invalid_vote_input", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
