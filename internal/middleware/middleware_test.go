package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCandidateJWT(t *testing.T) {
	auth := service.NewAuthService("secret", time.Hour)
	r := gin.New()
	r.GET("/me", RequireCandidateJWT(auth), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Email)
	})

	candidate, _ := auth.GenerateCandidateToken("Ada@Example.com")
	admin, _ := auth.GenerateAdminToken("ops", model.PermissionStrings())

	cases := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{"missing", "", "", http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"admin token", "Bearer " + admin, "", http.StatusForbidden, "CANDIDATE_ACCESS_ONLY"},
		{"header", "Bearer " + candidate, "", http.StatusOK, "ada@example.com"},
		{"query fallback", "", candidate, http.StatusOK, "ada@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			url := "/me"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(r, req)
			if w.Code != tc.status || !strings.Contains(w.Body.String(), tc.body) {
				t.Fatalf("got %d %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCandidateWSAuthIgnoresHeader(t *testing.T) {
	auth := service.NewAuthService("secret", time.Hour)
	r := gin.New()
	r.GET("/ws", RequireCandidateWSAuth(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	tok, _ := auth.GenerateCandidateToken("ada@example.com")
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("header token accepted: %d", w.Code)
	}
	if w := serve(r, httptest.NewRequest(http.MethodGet, "/ws?token="+tok, nil)); w.Code != http.StatusOK {
		t.Fatalf("query token rejected: %d", w.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	auth := service.NewAuthService("secret", time.Hour)
	r := gin.New()
	r.DELETE("/entry", RequireAdminJWT(auth), RequirePermission(model.PermissionReportsDelete), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	reader, _ := auth.GenerateAdminToken("viewer", []string{string(model.PermissionReportsRead)})
	owner, _ := auth.GenerateAdminToken("owner", model.PermissionStrings())

	req := httptest.NewRequest(http.MethodDelete, "/entry", nil)
	req.Header.Set("Authorization", "Bearer "+reader)
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Fatalf("reader: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/entry", nil)
	req.Header.Set("Authorization", "Bearer "+owner)
	if w := serve(r, req); w.Code != http.StatusNoContent {
		t.Fatalf("owner: %d", w.Code)
	}
}

func TestBrotli(t *testing.T) {
	big := strings.Repeat("report row ", 500)
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, big) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/big", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := serve(r, req)
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("big body not compressed: %v", w.Header())
	}
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil || string(plain) != big {
		t.Fatalf("round trip failed: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	w = serve(r, req)
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
		t.Fatalf("small body = %q %v", w.Body.String(), w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/big", nil)
	w = serve(r, req)
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != big {
		t.Fatal("compressed without Accept-Encoding")
	}
}
