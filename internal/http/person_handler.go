package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
)

// avatarMaxBytes caps avatar uploads.
const avatarMaxBytes = 8 << 20

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	person, err := s.svc.Person.GetPerson(r.Context(), account.AccountID, mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, person)
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	var req struct {
		Name string `json:"name"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	person, err := s.svc.Person.UpdateName(r.Context(), account.AccountID, mux.Vars(r)["id"], req.Name)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, person)
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, avatarMaxBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeErr(w, s.log, apperr.Validation("multipart field 'file' is required"))
		return
	}
	defer file.Close()

	person, err := s.svc.Person.UploadAvatar(r.Context(), account.AccountID, mux.Vars(r)["id"], file)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, person)
}

func (s *Server) handleDownloadAvatar(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())
	rc, err := s.svc.Person.OpenAvatar(r.Context(), account.AccountID, mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	defer rc.Close()

	// Content type is sniffed from the first bytes.
	head := make([]byte, 512)
	n, _ := io.ReadFull(rc, head)
	w.Header().Set("Content-Type", http.DetectContentType(head[:n]))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(head[:n])
	_, _ = io.Copy(w, rc)
}
