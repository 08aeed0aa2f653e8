package response

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	r := gin.New()
	r.Use(RequestIDMiddleware(zerolog.New(&logs).Level(zerolog.DebugLevel)))
	r.GET("/ping", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		Success(c, http.StatusOK, gin.H{"ok": true})
	})

	cases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"valid id kept", "abc-123_x.y", true},
		{"empty generated", "", false},
		{"unsafe replaced", "evil\nheader", false},
		{"too long replaced", strings.Repeat("a", maxRequestIDLen+1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs.Reset()
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.incoming != "" {
				req.Header.Set("X-Request-ID", tc.incoming)
			}
			r.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-ID")
			if tc.keep && got != tc.incoming {
				t.Fatalf("X-Request-ID = %q, want %q", got, tc.incoming)
			}
			if !tc.keep && (got == "" || got == tc.incoming) {
				t.Fatalf("X-Request-ID = %q, want a generated id", got)
			}

			var body Response
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Metadata.RequestID != got {
				t.Errorf("metadata request_id = %q, header %q", body.Metadata.RequestID, got)
			}
			if !strings.Contains(logs.String(), `"request_id":"`+got+`"`) {
				t.Errorf("request logger not tagged:\n%s", logs.String())
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page, perPage int
		total         int64
		pages         int
	}{
		{1, 20, 0, 0},
		{1, 20, 20, 1},
		{2, 20, 21, 2},
		{1, 0, 5, 0},
	}
	for _, tc := range cases {
		p := NewPagination(tc.page, tc.perPage, tc.total)
		if p.TotalPages != tc.pages || p.TotalItems != int(tc.total) {
			t.Errorf("NewPagination(%d, %d, %d) = %+v", tc.page, tc.perPage, tc.total, p)
		}
	}
}
