package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kadekeh/volley/internal/engine"
	"github.com/kadekeh/volley/internal/model"
)

func TestWriteCSVHeaderAndUnits(t *testing.T) {
	var buf bytes.Buffer
	results := []model.HttpResult{
		{
			Group:           "g1",
			Flow:            "f1",
			StartTimestamp:  "2026-01-01T00:00:00Z",
			ResponseStatus:  "200",
			DNSDuration:     2 * time.Millisecond,
			ConnectDuration: 3 * time.Millisecond,
		},
	}
	WriteCSV(&buf, results)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "start timestamp,response status,group,flow,total us,dns us,connect us,tls us,redirect us,sending us,waiting us,downloading us" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if len(lines) != 2 {
		t.Fatalf("expected one data row, got %d", len(lines)-1)
	}
	fields := strings.Split(lines[1], ",")
	if fields[0] != "2026-01-01T00:00:00Z" || fields[1] != "200" || fields[2] != "g1" || fields[3] != "f1" {
		t.Fatalf("unexpected leading fields: %v", fields[:4])
	}
	if fields[5] != "2000" {
		t.Fatalf("expected dns duration in microseconds (2000), got %q", fields[5])
	}
	if fields[6] != "3000" {
		t.Fatalf("expected connect duration in microseconds (3000), got %q", fields[6])
	}
}

func TestWriteStatsGroupsByGroupThenFlow(t *testing.T) {
	var buf bytes.Buffer
	results := []model.HttpResult{
		{Group: "g1", Flow: "f1", SendingDuration: 100 * time.Millisecond},
		{Group: "g1", Flow: "f1", SendingDuration: 200 * time.Millisecond},
		{Group: "g2", Flow: "f2", SendingDuration: 50 * time.Millisecond},
	}
	WriteStats(&buf, results)

	out := buf.String()
	if !strings.Contains(out, "Group: g1") || !strings.Contains(out, "Group: g2") {
		t.Fatalf("expected both groups in output: %q", out)
	}
	if strings.Index(out, "Group: g1") > strings.Index(out, "Group: g2") {
		t.Fatalf("expected groups sorted alphabetically: %q", out)
	}
	if !strings.Contains(out, "Flow: f1") {
		t.Fatalf("expected flow f1 listed under g1: %q", out)
	}
}

func TestPercentileFloorFormula(t *testing.T) {
	sorted := []time.Duration{
		1 * time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second,
	}
	// p50 of 5 samples: floor((5-1)*0.5) = 2 -> sorted[2] == 3s.
	if got := percentile(sorted, 0.50); got != 3*time.Second {
		t.Fatalf("expected p50 == 3s, got %v", got)
	}
	// p95 of 5 samples: floor((5-1)*0.95) = 3 -> sorted[3] == 4s.
	if got := percentile(sorted, 0.95); got != 4*time.Second {
		t.Fatalf("expected p95 == 4s, got %v", got)
	}
}

func TestWriteDebugExchangePrintsRawBytes(t *testing.T) {
	var buf bytes.Buffer
	ex := engine.Exchange{
		RawRequest:  []byte("GET / HTTP/1.1\r\nhost: example.com\r\n\r\n"),
		RawResponse: []byte("HTTP/1.1 200 OK\r\n\r\n"),
	}
	WriteDebugExchange(&buf, ex)

	out := buf.String()
	if !strings.Contains(out, "--- request ---") || !strings.Contains(out, "GET / HTTP/1.1") {
		t.Fatalf("expected raw request section: %q", out)
	}
	if !strings.Contains(out, "--- response ---") || !strings.Contains(out, "HTTP/1.1 200 OK") {
		t.Fatalf("expected raw response section: %q", out)
	}
}
