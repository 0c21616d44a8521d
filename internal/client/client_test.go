package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AttachesTokenAndJSON(t *testing.T) {
	var gotAuth, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "intro", r.URL.Query().Get("tag"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.False(t, r.URL.Query().Has("q"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(PostList{Items: []Post{{ID: "1", Title: "Hello"}}, Total: 1, Page: 2, PageSize: 10})
	}))
	defer srv.Close()

	tokens := &MemoryTokenStore{}
	require.NoError(t, tokens.Save("abc"))
	c := New(srv.URL+"/", tokens)

	list, err := c.ListPosts(context.Background(), ListParams{Tag: "intro", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "Hello", list.Items[0].Title)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, nil).DeletePost(context.Background(), "x"))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server message", http.StatusForbidden, `{"error":"You can only delete your own posts","code":"FORBIDDEN"}`, "You can only delete your own posts"},
		{"non json body", http.StatusBadGateway, `<html>bad gateway</html>`, "Request failed"},
		{"json without error", http.StatusInternalServerError, `{}`, "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL, nil).DeletePost(context.Background(), "x")
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestClient_LoginStoresTokenLogoutClears(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "demo@skinx.dev", body["email"])
		json.NewEncoder(w).Encode(Session{Token: "tok", User: User{ID: "u1", Email: body["email"]}})
	}))
	defer srv.Close()

	tokens := &MemoryTokenStore{}
	c := New(srv.URL, tokens)

	session, err := c.Login(context.Background(), "demo@skinx.dev", "password123")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.User.ID)

	stored, _ := tokens.Load()
	assert.Equal(t, "tok", stored)

	require.NoError(t, c.Logout())
	stored, _ = tokens.Load()
	assert.Empty(t, stored)
}

func TestClient_HealthDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"ok":false,"database":"disconnected","error":"Database connection failed"}`))
	}))
	defer srv.Close()

	h, err := New(srv.URL, nil).Health(context.Background())
	require.NoError(t, err)
	assert.False(t, h.OK)
	assert.Equal(t, "disconnected", h.Database)
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	s := NewFileTokenStore(path)

	token, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.Save("secret-token"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear(), "clearing twice is fine")
	token, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
