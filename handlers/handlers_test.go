package handlers

import (
	"bytes"
	"cinelog-server/middleware"
	"cinelog-server/models"
	"cinelog-server/store/storetest"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// newRequest builds a request authenticated as uid, with an optional JSON
// body and mux path variables.
func newRequest(t *testing.T, method, target, uid string, body any, vars map[string]string) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if uid != "" {
		ctx := middleware.WithAuthUser(req.Context(), &middleware.AuthUser{UID: uid, Name: "user " + uid})
		req = req.WithContext(ctx)
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

// seedUser stores a live user with the given relationships.
func seedUser(users *storetest.UserStore, uid, name string, follow, followed []string) {
	users.Seed(models.User{
		UID:       uid,
		Name:      name,
		Email:     uid + "@example.com",
		Follow:    follow,
		Followed:  followed,
		Streaming: []int{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
}
