package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
)

func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID   string `json:"sender_id"`
		ReceiverID string `json:"receiver_id"`
		Text       string `json:"text"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	sender, err := s.actingPerson(r, req.SenderID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	message, err := s.svc.Message.CreateMessage(r.Context(), sender.PersonID, req.ReceiverID, req.Text)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusCreated, message)
}

func (s *Server) handleFindMessages(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	switch filter := r.URL.Query().Get("filter"); filter {
	case "", "all":
		messages, err := s.svc.Message.FindAll(r.Context(), person.PersonID)
		writeListOrErr(w, s, messages, err)
	case "sent":
		messages, err := s.svc.Message.FindSent(r.Context(), person.PersonID)
		writeListOrErr(w, s, messages, err)
	case "received":
		messages, err := s.svc.Message.FindReceived(r.Context(), person.PersonID)
		writeListOrErr(w, s, messages, err)
	default:
		writeErr(w, s.log, apperr.Validation("unknown filter, use all|sent|received"))
	}
}

// writeListOrErr writes a list response or the error.
func writeListOrErr[T any](w http.ResponseWriter, s *Server, items []T, err error) {
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (s *Server) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	message, err := s.svc.Message.Get(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, message)
}

func (s *Server) handleMessageSent(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	message, err := s.svc.Message.MarkAsSent(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, message)
}

func (s *Server) handleMessageRetrieved(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	message, err := s.svc.Message.MarkAsRetrieved(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, message)
}
