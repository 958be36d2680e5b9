package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestMutationBody(t *testing.T) {
	body := mutationBody("100", "", "txn-1", true)

	if body["amount"] != "100" {
		t.Fatalf("expected amount 100, got %v", body["amount"])
	}
	if body["transaction_id"] != "txn-1" {
		t.Fatalf("expected transaction_id txn-1, got %v", body["transaction_id"])
	}
	if body["confirmed"] != false {
		t.Fatalf("expected confirmed false, got %v", body["confirmed"])
	}
	if _, ok := body["amount_float"]; ok {
		t.Fatal("expected amount_float to be omitted")
	}
}

func TestMutationBodyConfirmedOmitted(t *testing.T) {
	body := mutationBody("", "1.50", "", false)

	if _, ok := body["confirmed"]; ok {
		t.Fatal("expected confirmed to be omitted when not unconfirmed")
	}
	if body["amount_float"] != "1.50" {
		t.Fatalf("expected amount_float 1.50, got %v", body["amount_float"])
	}
}

func TestGetJSONPrintsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/wallets/w1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"w1","balance":"100"}`))
	}))
	defer srv.Close()

	origURL := baseURL
	baseURL = srv.URL
	defer func() { baseURL = origURL }()

	out := captureOutput(t, func() {
		if err := getJSON("/api/v1/wallets/w1"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	if !strings.Contains(out, `"balance": "100"`) {
		t.Fatalf("expected balance in output, got:\n%s", out)
	}
}

func TestPostJSONReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"amount is invalid"}`))
	}))
	defer srv.Close()

	origURL := baseURL
	baseURL = srv.URL
	defer func() { baseURL = origURL }()

	out := captureOutput(t, func() {
		err := postJSON("/api/v1/wallets/w1/deposit", map[string]any{"amount": "bad"})
		if err == nil {
			t.Error("expected error for 400 response")
		}
	})

	if !strings.Contains(out, "amount is invalid") {
		t.Fatalf("expected error body in output, got:\n%s", out)
	}
}
