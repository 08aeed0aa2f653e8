package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/grading"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
)

func TestNewNoop(t *testing.T) {
	for _, driver := range []string{"", config.BrokerDriverNone} {
		p, err := New(context.Background(), &config.Config{BrokerDriver: driver}, zerolog.Nop())
		if err != nil {
			t.Fatalf("driver %q: %v", driver, err)
		}
		if _, ok := p.(Noop); !ok {
			t.Fatalf("driver %q: got %T", driver, p)
		}
		if err := p.Publish(context.Background(), report.Event{}); err != nil {
			t.Fatal(err)
		}
		if err := p.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), &config.Config{BrokerDriver: "kafka"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestEncode(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ev := report.Event{
		Type:   report.EventSubmitted,
		TestID: "t1",
		Entry:  model.ReportEntry{Email: "ada@example.com", Duration: "00:12:00", Trigger: model.TriggerTimeout},
		Totals: grading.Total{Score: 15, TotalScore: 20},
		At:     at,
	}

	body, err := encode(ev)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["type"] != "report.submitted" || got["test_id"] != "t1" {
		t.Fatalf("payload = %s", body)
	}
	entry := got["entry"].(map[string]any)
	if entry["trigger"] != "timeout" || entry["email"] != "ada@example.com" {
		t.Fatalf("entry = %v", entry)
	}
	if got["at"] != "2026-03-01T10:00:00Z" {
		t.Fatalf("at = %v", got["at"])
	}
}
