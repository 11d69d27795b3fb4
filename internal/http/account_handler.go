package http

import (
	"net/http"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/service"
)

// accountView hides the credential columns from API responses.
type accountView struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	HasFcm    bool   `json:"has_fcm_token"`
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	if account == nil {
		writeErr(w, s.log, apperr.ErrUnauthorized)
		return
	}
	writeData(w, http.StatusOK, accountView{
		AccountID: account.AccountID,
		Email:     account.Email,
		CreatedAt: account.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		HasFcm:    account.FcmToken.Valid,
	})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	if account == nil {
		writeErr(w, s.log, apperr.ErrUnauthorized)
		return
	}
	if err := s.svc.Account.DeleteAccount(r.Context(), account.AccountID); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleAccountChangeRequest(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	if account == nil {
		writeErr(w, s.log, apperr.ErrUnauthorized)
		return
	}
	token, err := s.svc.Account.RequestAccountChange(r.Context(), account.AccountID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleAccountChangeConfirm(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	if account == nil {
		writeErr(w, s.log, apperr.ErrUnauthorized)
		return
	}
	var req service.AccountChangeRequest
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	if err := s.svc.Account.ConfirmAccountChange(r.Context(), account.AccountID, req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
