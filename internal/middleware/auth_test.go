package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyAuth(t *testing.T) {
	var gotClient string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClient = GetClientFromContext(r.Context())
	})
	h := APIKeyAuth(map[string]string{"ci": "k1", "web": "k2"})(next)

	tests := []struct {
		name       string
		path       string
		header     string
		wantCode   int
		wantClient string
	}{
		{"missing header", "/process", "", http.StatusUnauthorized, ""},
		{"blank bearer", "/process", "Bearer ", http.StatusUnauthorized, ""},
		{"wrong key", "/process", "Bearer nope", http.StatusUnauthorized, ""},
		{"bearer key", "/process", "Bearer k1", http.StatusOK, "ci"},
		{"raw key", "/process", "k2", http.StatusOK, "web"},
		{"health is public", "/health", "", http.StatusOK, ""},
		{"ready is public", "/ready", "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClient = ""
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if gotClient != tt.wantClient {
				t.Errorf("client = %q, want %q", gotClient, tt.wantClient)
			}
		})
	}
}

func TestAPIKeyAuthDisabled(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	rec := httptest.NewRecorder()
	APIKeyAuth(nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/process", nil))
	if !called || rec.Code != http.StatusOK {
		t.Errorf("called = %v, code = %d", called, rec.Code)
	}
}
