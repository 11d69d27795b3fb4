package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/service"
)

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	groups, err := s.svc.Group.ListGroups(r.Context(), account.AccountID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, groups)
}

func (s *Server) handleFilterGroups(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	name := r.URL.Query().Get("name")
	if name == "" {
		writeErr(w, s.log, apperr.Validation("name query parameter is required"))
		return
	}
	groups, err := s.svc.Group.FilterGroups(r.Context(), account.AccountID, name)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, groups)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	var req struct {
		Name      string `json:"name"`
		OwnerName string `json:"owner_name"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	group, err := s.svc.Group.CreateGroup(r.Context(), account.AccountID, req.Name, req.OwnerName)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	group, err := s.svc.Group.GetGroup(r.Context(), account.AccountID, mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, group)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	var req service.AddMemberRequest
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	person, err := s.svc.Group.AddMember(r.Context(), account.AccountID, mux.Vars(r)["id"], req)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusCreated, person)
}

func (s *Server) handleChangeMember(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	vars := mux.Vars(r)
	var req service.ChangeMemberRequest
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	person, err := s.svc.Group.ChangeMember(r.Context(), account.AccountID, vars["id"], vars["personId"], req)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, person)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	vars := mux.Vars(r)
	if err := s.svc.Group.RemoveMember(r.Context(), account.AccountID, vars["id"], vars["personId"]); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleExportMembers(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	data, err := s.svc.Group.ExportMembers(r.Context(), account.AccountID, mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="members.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
