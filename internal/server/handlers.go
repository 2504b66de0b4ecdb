package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/quizmint/internal/assessment"
	"github.com/abhisek/quizmint/internal/quizgen"
	"github.com/abhisek/quizmint/internal/session"
	"github.com/abhisek/quizmint/internal/sessionstore"
)

type createRequest struct {
	Content string `json:"content"`
}

type answerRequest struct {
	Answer string         `json:"answer"`
	Letter quizgen.Letter `json:"letter,omitempty"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := s.service.Generate(r.Context(), req.Content)
	switch {
	case errors.Is(err, assessment.ErrEmptyContent):
		writeError(w, http.StatusBadRequest, assessment.UserMessage(err))
		return
	case errors.Is(err, assessment.ErrNoQuestions):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":    assessment.UserMessage(err),
			"warnings": newWarningViews(res.Warnings()),
		})
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, assessment.UserMessage(err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.sessions.Create(r.Context(), res.Session); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	view := newAssessmentView(res.Session, res.Session.Remaining(s.now()))
	view.Message = assessment.SuccessMessage
	view.Warnings = newWarningViews(res.Warnings())
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		sess.Tick(now)
		return nil
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssessmentView(sess, sess.Remaining(now)))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "question index must be an integer")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	now := s.now()
	_, err = s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		if req.Letter != "" {
			return sess.SelectLetter(now, index, req.Letter)
		}
		return sess.Select(now, index, req.Answer)
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		return sess.Submit(now)
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newResultsView(sess))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		sess.Tick(now)
		return nil
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if !sess.Submitted() {
		writeError(w, http.StatusConflict, "assessment has not been submitted")
		return
	}
	writeJSON(w, http.StatusOK, newResultsView(sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionstore.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrIndexOutOfRange), errors.Is(err, session.ErrInvalidOption):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotStarted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
