package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/designhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func corsRouter(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.CORSMiddleware(origins))
	r.GET("/designs", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantStatus int
		wantAllow  string
		wantCreds  string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "http://app.local", method: http.MethodGet, wantStatus: http.StatusOK, wantAllow: "*"},
		{name: "listed_origin", origins: []string{"http://app.local"}, origin: "http://app.local", method: http.MethodGet, wantStatus: http.StatusOK, wantAllow: "http://app.local", wantCreds: "true"},
		{name: "unlisted_origin", origins: []string{"http://app.local"}, origin: "http://evil.local", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "preflight", origins: []string{"*"}, origin: "http://app.local", method: http.MethodOptions, wantStatus: http.StatusNoContent, wantAllow: "*"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/designs", nil)
			req.Header.Set("Origin", tt.origin)

			w := httptest.NewRecorder()
			corsRouter(tt.origins).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Fatalf("allow-origin %q, want %q", got, tt.wantAllow)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Fatalf("allow-credentials %q, want %q", got, tt.wantCreds)
			}
		})
	}
}
