package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	albums, err := s.svc.Album.ListAlbums(r.Context(), person.PersonID)
	writeListOrErr(w, s, albums, err)
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		OwnerID string `json:"owner_id"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	owner, err := s.actingPerson(r, req.OwnerID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	album, err := s.svc.Album.CreateAlbum(r.Context(), owner.PersonID, req.Name)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusCreated, album)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	album, err := s.svc.Album.GetAlbum(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, album)
}

func (s *Server) handleRenameAlbum(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := readBody(r, &req); err != nil {
		writeErr(w, s.log, err)
		return
	}
	album, err := s.svc.Album.RenameAlbum(r.Context(), mux.Vars(r)["id"], person.PersonID, req.Name)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, album)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	if err := s.svc.Album.DeleteAlbum(r.Context(), mux.Vars(r)["id"], person.PersonID); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleShareAlbum(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AlbumID    string `json:"album_id"`
		SenderID   string `json:"sender_id"`
		ReceiverID string `json:"receiver_id"`
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
	share, err := s.svc.Album.ShareAlbum(r.Context(), req.AlbumID, sender.PersonID, req.ReceiverID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusCreated, share)
}

func (s *Server) handleFindShares(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	var shares []domain.AlbumShare
	switch filter := r.URL.Query().Get("filter"); filter {
	case "", "all":
		shares, err = s.svc.Album.FindShares(r.Context(), person.PersonID)
	case "sent":
		shares, err = s.svc.Album.FindSharesSent(r.Context(), person.PersonID)
	case "received":
		shares, err = s.svc.Album.FindSharesReceived(r.Context(), person.PersonID)
	default:
		writeErr(w, s.log, apperr.Validation("unknown filter, use all|sent|received"))
		return
	}
	writeListOrErr(w, s, shares, err)
}

func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	share, err := s.svc.Album.GetShare(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, share)
}

func (s *Server) handleShareSent(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	share, err := s.svc.Album.MarkShareAsSent(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, share)
}

func (s *Server) handleShareRetrieved(w http.ResponseWriter, r *http.Request) {
	person, err := s.actingPerson(r, "")
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	share, err := s.svc.Album.MarkShareAsRetrieved(r.Context(), mux.Vars(r)["id"], person.PersonID)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeData(w, http.StatusOK, share)
}
