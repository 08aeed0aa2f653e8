//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/service"
)

const (
	defaultServerURL = "http://localhost:8080"
	candidateEmail   = "e2e_candidate@example.com"
	adminSubject     = "e2e_admin@example.com"
)

var (
	serverURL      string
	dbURL          string
	testID         string
	adminToken     string
	candidateToken string
)

func TestMain(m *testing.M) {
	// config.Load reads ../../.env through godotenv when present.
	_ = os.Chdir("../..")
	cfg := config.Load()

	serverURL = os.Getenv("SERVER_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	dbURL = cfg.DatabaseURL

	auth := service.NewAuthService(cfg.JWTSecret, time.Hour)
	var err error
	if adminToken, err = auth.GenerateAdminToken(adminSubject, model.PermissionStrings()); err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		os.Exit(1)
	}
	if candidateToken, err = auth.GenerateCandidateToken(candidateEmail); err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		os.Exit(1)
	}

	if err := seedTest(); err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// seedTest inserts a one-question test straight into PostgreSQL.
func seedTest() error {
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, `DELETE FROM candidates WHERE email = $1`, candidateEmail); err != nil {
		return fmt.Errorf("cleanup candidate: %w", err)
	}

	questionID := uuid.NewString()
	testID = uuid.NewString()
	cases := []model.TestCase{{Name: "sample", Input: "1 2", ExpectedOutput: "3", Score: 10, Sample: true}}
	if _, err := conn.Exec(ctx,
		`INSERT INTO questions (id, name, description, test_cases) VALUES ($1, 'Sum', 'Add two numbers', $2)`,
		questionID, cases); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	if _, err := conn.Exec(ctx,
		`INSERT INTO tests (id, name, duration_minutes, question_ids) VALUES ($1, 'E2E Test', 30, $2)`,
		testID, []string{questionID}); err != nil {
		return fmt.Errorf("insert test: %w", err)
	}
	return nil
}

func TestE2EFlow(t *testing.T) {
	t.Run("AttemptBeforeStart", func(t *testing.T) {
		resp := do(t, http.MethodPost, "/api/v1/candidate/tests/"+testID+"/attempt", candidateToken)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	t.Run("CandidateCannotStartTest", func(t *testing.T) {
		resp := do(t, http.MethodPost, "/api/v1/admin/tests/"+testID+"/start", candidateToken)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	t.Run("StartTest", func(t *testing.T) {
		resp := do(t, http.MethodPost, "/api/v1/admin/tests/"+testID+"/start", adminToken)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	t.Run("ListRunningTests", func(t *testing.T) {
		resp := do(t, http.MethodGet, "/api/v1/candidate/tests", candidateToken)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		var body struct {
			Data struct {
				Tests []model.TestSummary `json:"tests"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		for _, s := range body.Data.Tests {
			if s.ID == testID {
				return
			}
		}
		t.Fatalf("test %s not listed", testID)
	})

	t.Run("OpenAttempt", func(t *testing.T) {
		resp := do(t, http.MethodPost, "/api/v1/candidate/tests/"+testID+"/attempt", candidateToken)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	t.Run("SubmitOverStream", func(t *testing.T) {
		conn := dial(t)
		defer conn.Close()

		expectEvent(t, conn, "state")

		send(t, conn, map[string]string{"action": "request_submit"})
		expectEvent(t, conn, "confirm_required")

		send(t, conn, map[string]string{"action": "confirm_submit"})
		expectEvent(t, conn, "results")
	})

	t.Run("ReportHasEntry", func(t *testing.T) {
		resp := do(t, http.MethodGet, "/api/v1/admin/tests/"+testID+"/report", adminToken)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		var body struct {
			Data service.TestReport `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Aggregate.Candidates != 1 {
			t.Fatalf("candidates = %d", body.Data.Aggregate.Candidates)
		}
		if !strings.EqualFold(body.Data.Entries[0].Email, candidateEmail) {
			t.Errorf("entry email = %q", body.Data.Entries[0].Email)
		}
	})

	t.Run("SecondAttemptRejected", func(t *testing.T) {
		resp := do(t, http.MethodPost, "/api/v1/candidate/tests/"+testID+"/attempt", candidateToken)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	t.Run("DeleteEntryAllowsRetake", func(t *testing.T) {
		resp := do(t, http.MethodDelete, "/api/v1/admin/tests/"+testID+"/report/"+url.PathEscape(candidateEmail), adminToken)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete status %d", resp.StatusCode)
		}

		resp = do(t, http.MethodPost, "/api/v1/candidate/tests/"+testID+"/attempt", candidateToken)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	t.Run("EndTest", func(t *testing.T) {
		resp := do(t, http.MethodPost, "/api/v1/admin/tests/"+testID+"/end", adminToken)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────

func do(t *testing.T, method, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, serverURL+path, bytes.NewReader(nil))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(serverURL, "http") +
		"/ws/v1/candidate/tests/" + testID + "/stream?token=" + url.QueryEscape(candidateToken)
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		if resp != nil {
			t.Fatalf("dial failed: %v (status %d: %s)", err, resp.StatusCode, readBody(resp))
		}
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// expectEvent reads messages until one of the given event type arrives.
func expectEvent(t *testing.T, conn *websocket.Conn, event string) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(20 * time.Second))
	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", event, err)
		}
		if msg["event"] == "error" {
			t.Fatalf("server error while waiting for %q: %v", event, msg)
		}
		if msg["event"] == event {
			return msg
		}
	}
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
