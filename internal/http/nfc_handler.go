package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/service"
)

func (s *Server) handleCreateNfc(w http.ResponseWriter, r *http.Request) {
	var req struct {
		service.CreateNfcRequest
		CreatorID string `json:"creator_id"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	creator, err := s.actingPerson(r, req.CreatorID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	nfc, err := s.svc.Nfc.CreateNfc(r.Context(), creator.PersonID, req.CreateNfcRequest)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusCreated, nfc)
}

func (s *Server) handleListNfcs(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	var nfcs []domain.NfcInfo
	switch filter := r.URL.Query().Get("filter"); filter {
	case "", "own":
		nfcs, err = s.svc.Nfc.FindOwn(r.Context(), person.PersonID)
	case "created":
		nfcs, err = s.svc.Nfc.FindCreated(r.Context(), person.PersonID)
	default:
		writeErr(w, s.log, apperr.Validation("unknown filter, use own|created"))
		return
	}
	writeListOrErr(w, s, nfcs, err)
}

func (s *Server) handleGetNfc(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	nfc, err := s.svc.Nfc.GetNfc(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nfc)
}

func (s *Server) handleChangeNfc(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	var req service.ChangeNfcRequest
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	nfc, err := s.svc.Nfc.ChangeNfc(r.Context(), mux.Vars(r)["id"], person.PersonID, req)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nfc)
}

func (s *Server) handleDeleteNfc(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	if err := s.svc.Nfc.DeleteNfc(r.Context(), mux.Vars(r)["id"], person.PersonID); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleResolveNfc(w http.ResponseWriter, r *http.Request) {
	action, err := s.svc.Nfc.ResolveRef(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, action)
}
