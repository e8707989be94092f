package jakbusdk

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSession_RetriesOnceAfterRefresh(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken != "refresh-1" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "bad refresh", Error: CodeInvalidRequest, Status: 400})
			return
		}
		refreshes.Add(1)
		writeJSON(w, http.StatusOK, SessionResponse{AccessToken: "access-2", RefreshToken: "refresh-1", UserID: 4, Name: "kim"})
	})
	mux.HandleFunc("GET /v1/todos/today", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "expired", Error: CodeInvalidToken, Status: 401})
			return
		}
		writeJSON(w, http.StatusOK, []TodoResponse{{ID: 1, Title: "walk", Date: "2026-10-16", Status: "TODO"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := NewClient(srv.URL).NewSession(SessionResponse{AccessToken: "access-1", RefreshToken: "refresh-1", UserID: 4, Name: "kim"})

	todos, err := s.TodayTodos(t.Context())
	require.NoError(t, err)
	require.Len(t, todos, 1)
	require.Equal(t, "walk", todos[0].Title)
	require.Equal(t, int32(1), refreshes.Load())
	require.Equal(t, "access-2", s.AccessToken())
	require.Equal(t, "refresh-1", s.RefreshToken())
}

func TestSession_RefreshRejected(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "invalid token", Error: CodeInvalidToken, Status: 401})
	})
	mux.HandleFunc("POST /v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "invalid token", Error: CodeInvalidToken, Status: 401})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := NewClient(srv.URL).NewSession(SessionResponse{AccessToken: "a", RefreshToken: "r"})

	err := s.Logout(t.Context())
	require.True(t, IsCode(err, CodeInvalidToken), "got %v", err)
}

func TestSession_NotificationSettingMissing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "not found", Error: CodeNotFound, Status: 404})
	}))
	t.Cleanup(srv.Close)

	s := NewClient(srv.URL).NewSession(SessionResponse{AccessToken: "a", RefreshToken: "r"})

	_, err := s.NotificationSetting(t.Context())
	require.ErrorIs(t, err, ErrNoSetting)
}

func TestClient_ErrorDecoding(t *testing.T) {
	t.Parallel()

	t.Run("structured", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, ErrorResponse{Message: "account id already taken", Error: CodeDuplicateKey, Status: 409})
		}))
		t.Cleanup(srv.Close)

		_, err := NewClient(srv.URL).Signup(t.Context(), "kim", "secret1", "Kim")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.StatusCode)
		require.Equal(t, CodeDuplicateKey, apiErr.Code)
	})

	t.Run("plain text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		_, err := NewClient(srv.URL + "/").Livez(t.Context())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, CodeInternal, apiErr.Code)
		require.Equal(t, "upstream down", apiErr.Message)
	})
}
