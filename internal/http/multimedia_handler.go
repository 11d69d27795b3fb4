package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/service"
)

// multimediaMaxBytes caps media uploads.
const multimediaMaxBytes = 64 << 20

func (s *Server) handleUploadMultimedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, multimediaMaxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, s.log, apperr.Validation("multipart field 'file' is required"))
		return
	}
	defer file.Close()

	owner, err := s.actingPerson(r, r.FormValue("owner_id"))
	if err != nil {
		writeErr(w, s.log, err)
		return
	}

	media, err := s.svc.Multimedia.Upload(r.Context(), service.UploadMultimediaRequest{
		OwnerID:     owner.PersonID,
		ReceiverID:  r.FormValue("receiver_id"),
		AlbumID:     r.FormValue("album_id"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusCreated, media)
}

func (s *Server) handleFindMultimedia(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	if albumID := r.URL.Query().Get("album_id"); albumID != "" {
		items, err := s.svc.Multimedia.FindByAlbum(r.Context(), albumID, person.PersonID)
		writeListOrErr(w, s, items, err)
		return
	}
	var items []domain.Multimedia
	switch filter := r.URL.Query().Get("filter"); filter {
	case "", "all":
		items, err = s.svc.Multimedia.FindAll(r.Context(), person.PersonID)
	case "sent":
		items, err = s.svc.Multimedia.FindSent(r.Context(), person.PersonID)
	case "received":
		items, err = s.svc.Multimedia.FindReceived(r.Context(), person.PersonID)
	case "own":
		items, err = s.svc.Multimedia.FindOwn(r.Context(), person.PersonID)
	default:
		writeErr(w, s.log, apperr.Validation("unknown filter, use all|sent|received|own"))
		return
	}
	writeListOrErr(w, s, items, err)
}

func (s *Server) handleGetMultimedia(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	media, err := s.svc.Multimedia.Get(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, media)
}

func (s *Server) handleDownloadMultimedia(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	media, rc, err := s.svc.Multimedia.OpenFile(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	defer rc.Close()

	contentType := media.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+media.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

func (s *Server) handleDeleteMultimedia(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	if err := s.svc.Multimedia.Delete(r.Context(), mux.Vars(r)["id"], person.PersonID); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleMultimediaSent(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	media, err := s.svc.Multimedia.MarkAsSent(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, media)
}

func (s *Server) handleMultimediaRetrieved(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	media, err := s.svc.Multimedia.MarkAsRetrieved(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, media)
}
