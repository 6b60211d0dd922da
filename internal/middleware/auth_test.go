package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func adminHandler(t *testing.T, token string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return RequireAdmin(token, logger)(next)
}

func doAuth(t *testing.T, h http.Handler, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdmin_NoTokenConfigured(t *testing.T) {
	h := adminHandler(t, "")

	if rec := doAuth(t, h, ""); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d (unguarded)", rec.Code, http.StatusNoContent)
	}
}

func TestRequireAdmin_ValidToken(t *testing.T) {
	h := adminHandler(t, "s3cret")

	if rec := doAuth(t, h, "Bearer s3cret"); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestRequireAdmin_CaseInsensitiveScheme(t *testing.T) {
	h := adminHandler(t, "s3cret")

	if rec := doAuth(t, h, "bearer s3cret"); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestRequireAdmin_Rejections(t *testing.T) {
	h := adminHandler(t, "s3cret")

	tests := []struct {
		name          string
		authorization string
	}{
		{name: "missing header", authorization: ""},
		{name: "wrong token", authorization: "Bearer wrong"},
		{name: "token is a prefix", authorization: "Bearer s3cre"},
		{name: "not a bearer scheme", authorization: "Basic s3cret"},
		{name: "bare token", authorization: "s3cret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuth(t, h, tt.authorization)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}
