//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

type sessionView struct {
	ID      string `json:"id"`
	Phase   string `json:"phase"`
	Notice  string `json:"notice"`
	Players []struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Score int    `json:"score"`
	} `json:"players"`
	Columns []struct {
		Title     string `json:"title"`
		Questions []struct {
			ID         string `json:"id"`
			Type       string `json:"type"`
			PointValue int    `json:"pointValue"`
			IsAnswered bool   `json:"isAnswered"`
		} `json:"questions"`
	} `json:"columns"`
	Version uint64 `json:"version"`
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func doJSON(t *testing.T, method, url string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func decodeSession(t *testing.T, resp *http.Response, wantStatus int) sessionView {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var errResp map[string]any
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("expected %d, got %d, error: %v", wantStatus, resp.StatusCode, errResp)
	}
	var out sessionView
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode session failed: %v", err)
	}
	return out
}

func createSession(t *testing.T, baseURL string, players int) sessionView {
	t.Helper()
	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/sessions", baseURL), map[string]int{"players": players})
	return decodeSession(t, resp, http.StatusCreated)
}

// waitForBoard polls the session until it leaves LOADING or the timeout passes.
func waitForBoard(t *testing.T, baseURL, id string, timeout time.Duration) sessionView {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/sessions/%s", baseURL, id), nil)
		view := decodeSession(t, resp, http.StatusOK)
		if view.Phase != "LOADING" {
			return view
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("session %s still loading after %s", id, timeout)
	return sessionView{}
}
