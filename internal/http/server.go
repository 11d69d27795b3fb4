// Package http wires the REST API: routing, authentication middleware and
// request handlers delegating to the service layer.
package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
	"github.com/ossi-austria/amigo-server-sub000/internal/service"
)

// Services collects everything the API depends on.
type Services struct {
	Accounts   repository.AccountsRepository
	Persons    repository.PersonsRepository
	Jwt        service.JwtService
	Auth       service.AuthService
	Account    service.AccountService
	Group      service.GroupService
	Person     service.PersonService
	Message    service.MessageService
	Multimedia service.MultimediaService
	Call       service.CallService
	Album      service.AlbumService
	Nfc        service.NfcService
}

// Server is the HTTP API.
type Server struct {
	svc    Services
	router *mux.Router
	log    *zap.Logger
}

func NewServer(svc Services, log *zap.Logger) *Server {
	s := &Server{svc: svc, log: log}
	s.routes()
	return s
}

// Handler returns the root handler for http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router = mux.NewRouter()
	s.router.Use(corsMiddleware, observeMiddleware(s.log))

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "up"})
	}).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/v1").Subrouter()

	public := v1.NewRoute().Subrouter()
	public.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	public.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	public.HandleFunc("/auth/password-reset/request", s.handlePasswordResetRequest).Methods(http.MethodPost)
	public.HandleFunc("/auth/password-reset/confirm", s.handlePasswordResetConfirm).Methods(http.MethodPost)

	private := v1.NewRoute().Subrouter()
	private.Use(authMiddleware(s.svc.Jwt, s.svc.Accounts, s.log))

	private.HandleFunc("/auth/fcm-token", s.handleSetFcmToken).Methods(http.MethodPost)

	private.HandleFunc("/account", s.handleGetAccount).Methods(http.MethodGet)
	private.HandleFunc("/account", s.handleDeleteAccount).Methods(http.MethodDelete)
	private.HandleFunc("/account/change/request", s.handleAccountChangeRequest).Methods(http.MethodPost)
	private.HandleFunc("/account/change/confirm", s.handleAccountChangeConfirm).Methods(http.MethodPost)

	private.HandleFunc("/groups", s.handleListGroups).Methods(http.MethodGet)
	private.HandleFunc("/groups", s.handleCreateGroup).Methods(http.MethodPost)
	private.HandleFunc("/groups/filtered", s.handleFilterGroups).Methods(http.MethodGet)
	private.HandleFunc("/groups/{id}", s.handleGetGroup).Methods(http.MethodGet)
	private.HandleFunc("/groups/{id}/members", s.handleAddMember).Methods(http.MethodPost)
	private.HandleFunc("/groups/{id}/members/export", s.handleExportMembers).Methods(http.MethodGet)
	private.HandleFunc("/groups/{id}/members/{personId}", s.handleChangeMember).Methods(http.MethodPatch)
	private.HandleFunc("/groups/{id}/members/{personId}", s.handleRemoveMember).Methods(http.MethodDelete)

	private.HandleFunc("/persons/{id}", s.handleGetPerson).Methods(http.MethodGet)
	private.HandleFunc("/persons/{id}", s.handleUpdatePerson).Methods(http.MethodPatch)
	private.HandleFunc("/persons/{id}/avatar", s.handleUploadAvatar).Methods(http.MethodPost)
	private.HandleFunc("/persons/{id}/avatar", s.handleDownloadAvatar).Methods(http.MethodGet)

	private.HandleFunc("/messages", s.handleCreateMessage).Methods(http.MethodPost)
	private.HandleFunc("/messages", s.handleFindMessages).Methods(http.MethodGet)
	private.HandleFunc("/messages/{id}", s.handleGetMessage).Methods(http.MethodGet)
	private.HandleFunc("/messages/{id}/sent", s.handleMessageSent).Methods(http.MethodPost)
	private.HandleFunc("/messages/{id}/retrieved", s.handleMessageRetrieved).Methods(http.MethodPost)

	private.HandleFunc("/multimedia", s.handleUploadMultimedia).Methods(http.MethodPost)
	private.HandleFunc("/multimedia", s.handleFindMultimedia).Methods(http.MethodGet)
	private.HandleFunc("/multimedia/{id}", s.handleGetMultimedia).Methods(http.MethodGet)
	private.HandleFunc("/multimedia/{id}", s.handleDeleteMultimedia).Methods(http.MethodDelete)
	private.HandleFunc("/multimedia/{id}/file", s.handleDownloadMultimedia).Methods(http.MethodGet)
	private.HandleFunc("/multimedia/{id}/sent", s.handleMultimediaSent).Methods(http.MethodPost)
	private.HandleFunc("/multimedia/{id}/retrieved", s.handleMultimediaRetrieved).Methods(http.MethodPost)

	private.HandleFunc("/calls", s.handleCreateCall).Methods(http.MethodPost)
	private.HandleFunc("/calls", s.handleFindCalls).Methods(http.MethodGet)
	private.HandleFunc("/calls/{id}", s.handleGetCall).Methods(http.MethodGet)
	private.HandleFunc("/calls/{id}/sent", s.handleCallSent).Methods(http.MethodPost)
	private.HandleFunc("/calls/{id}/retrieved", s.handleCallRetrieved).Methods(http.MethodPost)
	private.HandleFunc("/calls/{id}/accept", s.handleCallTransition(domain.CallStateAccepted)).Methods(http.MethodPost)
	private.HandleFunc("/calls/{id}/deny", s.handleCallTransition(domain.CallStateDenied)).Methods(http.MethodPost)
	private.HandleFunc("/calls/{id}/cancel", s.handleCallTransition(domain.CallStateCancelled)).Methods(http.MethodPost)
	private.HandleFunc("/calls/{id}/finish", s.handleCallTransition(domain.CallStateFinished)).Methods(http.MethodPost)
	private.HandleFunc("/calls/{id}/timeout", s.handleCallTransition(domain.CallStateTimeout)).Methods(http.MethodPost)

	private.HandleFunc("/album-shares", s.handleShareAlbum).Methods(http.MethodPost)
	private.HandleFunc("/album-shares", s.handleFindShares).Methods(http.MethodGet)
	private.HandleFunc("/album-shares/{id}", s.handleGetShare).Methods(http.MethodGet)
	private.HandleFunc("/album-shares/{id}/sent", s.handleShareSent).Methods(http.MethodPost)
	private.HandleFunc("/album-shares/{id}/retrieved", s.handleShareRetrieved).Methods(http.MethodPost)

	private.HandleFunc("/albums", s.handleListAlbums).Methods(http.MethodGet)
	private.HandleFunc("/albums", s.handleCreateAlbum).Methods(http.MethodPost)
	private.HandleFunc("/albums/{id}", s.handleGetAlbum).Methods(http.MethodGet)
	private.HandleFunc("/albums/{id}", s.handleRenameAlbum).Methods(http.MethodPatch)
	private.HandleFunc("/albums/{id}", s.handleDeleteAlbum).Methods(http.MethodDelete)

	private.HandleFunc("/nfcs", s.handleListNfcs).Methods(http.MethodGet)
	private.HandleFunc("/nfcs", s.handleCreateNfc).Methods(http.MethodPost)
	private.HandleFunc("/nfcs/resolve/{ref}", s.handleResolveNfc).Methods(http.MethodGet)
	private.HandleFunc("/nfcs/{id}", s.handleGetNfc).Methods(http.MethodGet)
	private.HandleFunc("/nfcs/{id}", s.handleChangeNfc).Methods(http.MethodPatch)
	private.HandleFunc("/nfcs/{id}", s.handleDeleteNfc).Methods(http.MethodDelete)
}

// actingPerson resolves the person the caller acts as. personID may come from
// a body field or the person_id query parameter; accounts with exactly one
// person may omit it.
func (s *Server) actingPerson(r *http.Request, personID string) (*domain.Person, error) {
	account := accountFrom(r.Context())
	if account == nil {
		return nil, apperr.ErrUnauthorized
	}
	if personID == "" {
		personID = r.URL.Query().Get("person_id")
	}
	if personID == "" {
		persons, err := s.svc.Persons.FindPersonsByAccount(r.Context(), account.AccountID)
		if err != nil {
			return nil, err
		}
		if len(persons) != 1 {
			return nil, apperr.Validation("person_id is required for accounts with multiple persons")
		}
		return &persons[0], nil
	}
	person, err := s.svc.Persons.GetPerson(r.Context(), personID)
	if err != nil {
		return nil, apperr.NotFound("person", personID)
	}
	if !person.AccountID.Valid || person.AccountID.String != account.AccountID {
		return nil, apperr.ErrForbidden
	}
	return person, nil
}
