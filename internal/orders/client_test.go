package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shaiso/Bosun/internal/domain"
)

func TestClient_CreateOrder(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/orders" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "ord-123",
			"status": "QUEUED",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")

	runnerID := uuid.New()
	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		RunnerID: runnerID,
		Category: "command",
		Name:     "build",
		Command:  "make build",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.ID != "ord-123" {
		t.Errorf("expected order id ord-123, got %s", order.ID)
	}
	if order.Status != domain.OrderStatusQueued {
		t.Errorf("expected QUEUED, got %s", order.Status)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
	// Wire format is camelCase.
	if gotBody["runnerId"] != runnerID.String() {
		t.Errorf("expected runnerId %s, got %v", runnerID, gotBody["runnerId"])
	}
	if gotBody["command"] != "make build" {
		t.Errorf("expected command, got %v", gotBody["command"])
	}
}

func TestClient_GetOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/orders/ord-123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":           "ord-123",
			"status":       "FAILED",
			"exitCode":     1,
			"stderrTail":   "boom",
			"errorMessage": "command exited with status 1",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	order, err := client.GetOrder(context.Background(), "ord-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != domain.OrderStatusFailed {
		t.Errorf("expected FAILED, got %s", order.Status)
	}
	if order.ExitCode == nil || *order.ExitCode != 1 {
		t.Error("exit code should be decoded")
	}
	if order.StderrTail != "boom" {
		t.Errorf("expected stderr tail, got %q", order.StderrTail)
	}
	if order.ErrorMessage != "command exited with status 1" {
		t.Errorf("unexpected error message: %q", order.ErrorMessage)
	}
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"code":    "NOT_FOUND",
				"message": "order not found",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	_, err := client.GetOrder(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") || !strings.Contains(err.Error(), "order not found") {
		t.Errorf("expected decoded API error, got %v", err)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	_, err := client.GetOrder(context.Background(), "ord-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("expected HTTP status in error, got %v", err)
	}
}
