package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// callView augments the call with the requesting party's room token.
type callView struct {
	domain.Call
	RoomToken string `json:"room_token,omitempty"`
}

func viewCall(call domain.Call, personID string) callView {
	view := callView{Call: call, RoomToken: call.TokenFor(personID)}
	// The counterpart's token never leaves the server.
	view.SenderToken, view.ReceiverToken = "", ""
	return view
}

func (s *Server) handleCreateCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID   string `json:"sender_id"`
		ReceiverID string `json:"receiver_id"`
		CallType   string `json:"call_type"`
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
	call, err := s.svc.Call.CreateCall(r.Context(), sender.PersonID, req.ReceiverID, domain.CallType(req.CallType))
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusCreated, viewCall(call, sender.PersonID))
}

func (s *Server) handleFindCalls(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	var calls []domain.Call
	switch filter := r.URL.Query().Get("filter"); filter {
	case "", "all":
		calls, err = s.svc.Call.FindAll(r.Context(), person.PersonID)
	case "sent":
		calls, err = s.svc.Call.FindSent(r.Context(), person.PersonID)
	case "received":
		calls, err = s.svc.Call.FindReceived(r.Context(), person.PersonID)
	default:
		writeErr(w, s.log, apperr.Validation("unknown filter, use all|sent|received"))
		return
	}
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	views := make([]callView, 0, len(calls))
	for _, c := range calls {
		views = append(views, viewCall(c, person.PersonID))
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) handleGetCall(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	call, err := s.svc.Call.Get(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, viewCall(call, person.PersonID))
}

// handleCallTransition dispatches the lifecycle endpoints onto the service.
func (s *Server) handleCallTransition(target domain.CallState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		person, err := s.actingPerson(r, "")
		if err != nil {
			writeErr(w, s.log, err)
			return
		}
		id := mux.Vars(r)["id"]

		var call domain.Call
		switch target {
		case domain.CallStateAccepted:
			call, err = s.svc.Call.AcceptCall(r.Context(), id, person.PersonID)
		case domain.CallStateDenied:
			call, err = s.svc.Call.DenyCall(r.Context(), id, person.PersonID)
		case domain.CallStateCancelled:
			call, err = s.svc.Call.CancelCall(r.Context(), id, person.PersonID)
		case domain.CallStateFinished:
			call, err = s.svc.Call.FinishCall(r.Context(), id, person.PersonID)
		case domain.CallStateTimeout:
			call, err = s.svc.Call.TimeoutCall(r.Context(), id, person.PersonID)
		default:
			err = apperr.Validation("unknown call transition")
		}
		if err != nil {
			writeErr(w, s.log, err)
			return
		}
		writeData(w, http.StatusOK, viewCall(call, person.PersonID))
	}
}

func (s *Server) handleCallSent(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	call, err := s.svc.Call.MarkAsSent(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, viewCall(call, person.PersonID))
}

func (s *Server) handleCallRetrieved(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	call, err := s.svc.Call.MarkAsRetrieved(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, viewCall(call, person.PersonID))
}
