package http

import (
	"net/http"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/service"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	account, err := s.svc.Auth.Register(r.Context(), req)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{
		"account_id": account.AccountID,
		"email":      account.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	pair, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, pair)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	access, err := s.svc.Auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"access_token": access})
}

func (s *Server) handlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	if err := s.svc.Auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	if err := s.svc.Auth.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleSetFcmToken(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	if account == nil {
		writeErr(w, s.log, apperr.ErrUnauthorized)
		return
	}
	var req struct {
		Token string `json:"token"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	if err := s.svc.Auth.SetFcmToken(r.Context(), account.AccountID, req.Token); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
