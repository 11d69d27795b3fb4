package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/config"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
	"github.com/ossi-austria/amigo-server-sub000/internal/service"
	"github.com/ossi-austria/amigo-server-sub000/internal/storage"
	"github.com/ossi-austria/amigo-server-sub000/internal/store"
)

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, string, map[string]string) bool { return false }

// newTestServer assembles the API on top of the in-memory repositories.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zap.NewNop()

	accounts := repository.NewMemoryAccountsRepo()
	persons := repository.NewMemoryPersonsRepo()
	groups := repository.NewMemoryGroupsRepo(persons)
	tokens := repository.NewMemoryLoginTokensRepo()
	messages := repository.NewMemoryMessagesRepo()
	calls := repository.NewMemoryCallsRepo()
	media := repository.NewMemoryMultimediaRepo()
	shares := repository.NewMemoryAlbumSharesRepo()
	albums := repository.NewMemoryAlbumsRepo(shares)
	nfcs := repository.NewMemoryNfcRepo()

	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "amigo-test", AccessTTL: time.Minute, RefreshTTL: time.Hour}
	jwt := service.NewJwtService(jwtCfg)
	jitsi := service.NewJitsiJwtService(config.JitsiConfig{Host: "meet.test", AppID: "amigo", Secret: "s", TTL: time.Hour})
	notifier := noopNotifier{}

	svc := Services{
		Accounts:   accounts,
		Persons:    persons,
		Jwt:        jwt,
		Auth:       service.NewAuthService(accounts, persons, groups, tokens, jwt, kv, log),
		Account:    service.NewAccountService(accounts, persons, tokens, files, log),
		Group:      service.NewGroupService(groups, persons, accounts, log),
		Person:     service.NewPersonService(persons, files, log),
		Message:    service.NewMessageService(messages, persons, accounts, notifier, log),
		Multimedia: service.NewMultimediaService(media, albums, shares, persons, accounts, files, notifier, log),
		Call:       service.NewCallService(calls, persons, accounts, jitsi, notifier, log),
		Album:      service.NewAlbumService(albums, shares, persons, accounts, notifier, log),
		Nfc:        service.NewNfcService(nfcs, persons, albums, log),
	}
	ts := httptest.NewServer(NewServer(svc, log).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// registerAndLogin signs up an account and returns its access token.
func registerAndLogin(t *testing.T, ts *httptest.Server, email, name string) string {
	t.Helper()
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/v1/auth/register", "", map[string]string{
		"email": email, "password": "password1", "name": name,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/v1/auth/login", "", map[string]string{
		"email": email, "password": "password1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	return data["access_token"].(string)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/v1/groups", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["name"])
}

func TestRegisterLoginAndListGroups(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "a@example.com", "Alice")

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/v1/groups", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	groups := body["data"].([]any)
	require.Len(t, groups, 1)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	ts := newTestServer(t)
	registerAndLogin(t, ts, "a@example.com", "Alice")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/v1/auth/register", "", map[string]string{
		"email": "a@example.com", "password": "password1", "name": "Clone",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body["name"])
}

// groupWithTwoMembers registers two accounts, puts Bob into Alice's group and
// returns both tokens with their person ids.
func groupWithTwoMembers(t *testing.T, ts *httptest.Server) (aliceToken, bobToken, aliceID, bobID string) {
	t.Helper()
	aliceToken = registerAndLogin(t, ts, "a@example.com", "Alice")
	bobToken = registerAndLogin(t, ts, "b@example.com", "Bob")

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/v1/groups", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	group := body["data"].([]any)[0].(map[string]any)
	groupID := group["GroupID"].(string)
	aliceID = group["Members"].([]any)[0].(map[string]any)["PersonID"].(string)

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/v1/groups/"+groupID+"/members", aliceToken, map[string]string{
		"name": "Bob in group", "member_type": "MEMBER", "email": "b@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	bobID = body["data"].(map[string]any)["PersonID"].(string)
	return aliceToken, bobToken, aliceID, bobID
}

func TestMessageRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, bobToken, aliceID, bobID := groupWithTwoMembers(t, ts)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/v1/messages", aliceToken, map[string]string{
		"sender_id": aliceID, "receiver_id": bobID, "text": "hello",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	messageID := body["data"].(map[string]any)["ID"].(string)

	// Sending to oneself is rejected.
	resp, body = doJSON(t, http.MethodPost, ts.URL+"/v1/messages", aliceToken, map[string]string{
		"sender_id": aliceID, "receiver_id": aliceID, "text": "echo",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "PERSONS_ARE_THE_SAME", body["name"])

	url := fmt.Sprintf("%s/v1/messages/%s/retrieved?person_id=%s", ts.URL, messageID, bobID)
	resp, body = doJSON(t, http.MethodPost, url, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, body["data"].(map[string]any)["RetrievedAt"])
}

func TestCallTransitionsOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, bobToken, aliceID, bobID := groupWithTwoMembers(t, ts)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/v1/calls", aliceToken, map[string]string{
		"sender_id": aliceID, "receiver_id": bobID, "call_type": "VIDEO",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	callID := data["ID"].(string)
	assert.NotEmpty(t, data["room_token"], "creator gets their room token")

	// The sender cannot accept their own call.
	url := fmt.Sprintf("%s/v1/calls/%s/accept?person_id=%s", ts.URL, callID, aliceID)
	resp, body = doJSON(t, http.MethodPost, url, aliceToken, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "NOT_ALLOWED_FOR_ROLE", body["name"])

	url = fmt.Sprintf("%s/v1/calls/%s/accept?person_id=%s", ts.URL, callID, bobID)
	resp, body = doJSON(t, http.MethodPost, url, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACCEPTED", body["data"].(map[string]any)["CallState"])

	// Accepting twice violates the state machine.
	resp, body = doJSON(t, http.MethodPost, url, bobToken, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE_TRANSITION", body["name"])
}

func TestMemberMutationRequiresAdminOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	aliceToken, bobToken, _, bobID := groupWithTwoMembers(t, ts)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/v1/groups", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	groupID := body["data"].([]any)[0].(map[string]any)["GroupID"].(string)

	// Bob is a plain MEMBER and may not mutate the member list.
	resp, body = doJSON(t, http.MethodPatch, ts.URL+"/v1/groups/"+groupID+"/members/"+bobID, bobToken,
		map[string]string{"name": "Bob the Admin"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_RIGHTS", body["name"])

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/v1/groups/"+groupID+"/members/"+bobID, aliceToken,
		map[string]string{"member_type": "ADMIN"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNfcLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "a@example.com", "Alice")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/v1/nfcs", token, map[string]string{
		"name": "kitchen tag", "nfc_ref": "ref-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/v1/nfcs", token, map[string]string{
		"name": "twin tag", "nfc_ref": "ref-1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/v1/nfcs/resolve/ref-1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UNDEFINED", body["data"].(map[string]any)["type"])
}
