//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func expectError(t *testing.T, resp *http.Response, wantStatus int, wantCode string) {
	t.Helper()
	defer resp.Body.Close()

	var errResp map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("expected %d, got %d, error: %v", wantStatus, resp.StatusCode, errResp)
	}
	if errResp["error"] != wantCode {
		t.Fatalf("expected error code %q, got %v", wantCode, errResp["error"])
	}
	if errResp["message"] == nil {
		t.Fatal("message field is missing")
	}
}

func TestUnknownSession(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/sessions/does-not-exist", baseURL), nil)
	expectError(t, resp, http.StatusNotFound, "session_not_found")
}

func TestInvalidPlayerCount(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/sessions", baseURL), map[string]int{"players": 9})
	expectError(t, resp, http.StatusBadRequest, "validation_failed")
}

func TestTooFewCategories(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	session := createSession(t, baseURL, 1)

	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/sessions/%s/categories", baseURL, session.ID), map[string][]string{
		"category_ids": {"otdb_general"},
	})
	expectError(t, resp, http.StatusBadRequest, "invalid_category_count")
}

func TestAnswerWithoutQuestion(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	session := createSession(t, baseURL, 1)

	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/sessions/%s/answer", baseURL, session.ID), map[string]string{"answer": "x"})
	expectError(t, resp, http.StatusConflict, "invalid_transition")
}
