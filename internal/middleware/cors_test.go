package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(origins []string, method, origin string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	req := httptest.NewRequest(method, "/api/judge", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	CORS(origins)(next).ServeHTTP(rr, req)
	return rr
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantCreds  string
	}{
		{"wildcard", []string{"*"}, http.MethodPost, "https://a.example", http.StatusTeapot, "https://a.example", ""},
		{"explicit", []string{"https://a.example"}, http.MethodPost, "https://a.example", http.StatusTeapot, "https://a.example", "true"},
		{"rejected", []string{"https://a.example"}, http.MethodPost, "https://b.example", http.StatusTeapot, "", ""},
		{"no origin", []string{"*"}, http.MethodGet, "", http.StatusTeapot, "", ""},
		{"preflight", []string{"*"}, http.MethodOptions, "https://a.example", http.StatusNoContent, "https://a.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(tt.origins, tt.method, tt.origin)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("allow-credentials = %q, want %q", got, tt.wantCreds)
			}
		})
	}
}

func TestCORSAllowsSessionHeader(t *testing.T) {
	rr := serve([]string{"*"}, http.MethodOptions, "https://a.example")
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-Quantsim-Session" {
		t.Errorf("allow-headers = %q", got)
	}
}
