package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/valpere/chattran/internal/apperr"
	"github.com/valpere/chattran/internal/chat"
	"github.com/valpere/chattran/internal/orchestrator"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

type messageView struct {
	Index int `json:"index"`
	chat.Message
	Shown string `json:"display"`
}

func newMessageView(index int, m chat.Message) messageView {
	return messageView{Index: index, Message: m, Shown: m.Display()}
}

type addMessageRequest struct {
	Direction string `json:"direction"`
	Text      string `json:"text"`
}

type regenerateRequest struct {
	Text string `json:"text"`
}

type translateRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	messages := s.transcript.Messages()
	views := make([]messageView, len(messages))
	for i, m := range messages {
		views[i] = newMessageView(i, m)
	}
	s.respond(w, http.StatusOK, views)
}

func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	var req addMessageRequest
	if !s.decode(w, r, &req) {
		return
	}

	direction, err := chat.ParseDirection(req.Direction)
	if err != nil {
		s.writeError(w, apperr.Wrap(err, apperr.KindInvalidArgument, "invalid direction"))
		return
	}

	index, m, err := s.transcript.Add(r.Context(), direction, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, newMessageView(index, m))
}

func (s *Server) toggleMessage(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}

	m, err := s.translator.Toggle(r.Context(), index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, newMessageView(index, m))
}

func (s *Server) regenerateMessage(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}

	var req regenerateRequest
	if !s.decode(w, r, &req) {
		return
	}

	m, err := s.transcript.Regenerate(r.Context(), index, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, newMessageView(index, m))
}

func (s *Server) messageHTML(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}

	entry, ok := s.renders.Get(index)
	if !ok {
		s.writeError(w, apperr.Newf(apperr.KindNotFound, "message %d has not been rendered", index))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(entry.HTML))
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.translator.RunCommand(r.Context(), orchestrator.CommandArgs{Language: req.Lang, Text: req.Text})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"translation": out})
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.config.Snapshot())
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		s.writeError(w, apperr.Newf(apperr.KindInvalidArgument, "invalid message index %q", raw))
		return 0, false
	}
	return index, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer func() {
		if err := r.Body.Close(); err != nil {
			s.logger.Errorw("failed to close request body", "error", err)
		}
	}()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		s.writeError(w, apperr.Wrap(fmt.Errorf("invalid payload: %w", err), apperr.KindInvalidArgument, "bad request"))
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, status int, data interface{}) {
	s.respondWithJSON(w, status, Response{Code: status, Msg: "ok", Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		s.logger.Errorw("Request failed", "error", err)
	}
	s.respondWithJSON(w, status, Response{
		Code: status,
		Msg:  err.Error(),
		Data: map[string]string{"kind": string(apperr.KindOf(err))},
	})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Errorw("failed to encode response", "error", err)
	}
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotConfigured:
		return http.StatusPreconditionFailed
	case apperr.KindInvariantViolation:
		return http.StatusUnprocessableEntity
	case apperr.KindBackendFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
