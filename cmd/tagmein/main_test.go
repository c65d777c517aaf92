package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHourCommand(t *testing.T) {
	out, err := run(t, "hour", "--at", "2024-01-02T00:30:00Z")
	if err != nil {
		t.Fatalf("hour: %v", err)
	}
	if !strings.HasPrefix(out, "24  2024-01-02T00:00:00Z") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSendRejectsLocally(t *testing.T) {
	// No server is listening: validation must fail first.
	_, err := run(t, "--url", "http://127.0.0.1:1", "send", "news", "abcd")
	if err == nil || !strings.Contains(err.Error(), "at least 5 characters") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSeekPrintsRanked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":{"messages":{"low message":{"position":1,"velocity":0,"timestamp":0},"high message":{"position":9,"velocity":0,"timestamp":0}},"channels":{}}}`))
	}))
	defer srv.Close()

	out, err := run(t, "--url", srv.URL, "seek", "news", "--hour", "10")
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "high message") {
		t.Fatalf("unexpected output %q", out)
	}
}
