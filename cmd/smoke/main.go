package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== BMI Planner E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBase), "/")
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Token", testDevToken},
		{"Calculate BMI", testCalculate},
		{"Get Plan", testGetPlan},
		{"Log Water", testLogWater},
		{"Chat Query", testChat},
		{"Create Export (PDF)", testCreateExport},
		{"List Exports", testListExports},
		{"Download Export", testDownloadExport},
		{"Delete Export", testDeleteExport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	_, err := doJSON("GET", "/healthz", nil, http.StatusOK, nil)
	return err
}

// testDevToken fetches a dev token unless SMOKE_TOKEN is set. A 404 means dev auth is off.
func testDevToken() error {
	if token != "" {
		return nil
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	status, err := doJSON("POST", "/v1/auth/dev", map[string]string{"user_id": "smoke"}, 0, &result)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		token = result.AccessToken
		return nil
	case http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("unexpected status=%d", status)
	}
}

func testCalculate() error {
	payload := map[string]interface{}{
		"name":           "Smoke",
		"unit":           "metric",
		"weight":         70,
		"height":         1.75,
		"age":            30,
		"gender":         "Male",
		"activity_level": "Moderately Active",
		"goal":           "Lose Weight",
		"diet":           "Omnivore",
	}

	var result struct {
		BMIDisplay string `json:"bmi_display"`
	}
	if _, err := doJSON("POST", "/v1/bmi/calculate", payload, http.StatusOK, &result); err != nil {
		return err
	}
	if result.BMIDisplay != "22.86" {
		return fmt.Errorf("unexpected bmi %q", result.BMIDisplay)
	}
	return nil
}

func testGetPlan() error {
	var result struct {
		Text string `json:"text"`
	}
	if _, err := doJSON("GET", "/v1/plan", nil, http.StatusOK, &result); err != nil {
		return err
	}
	if !strings.Contains(result.Text, "kcal") {
		return fmt.Errorf("plan text has no calorie target")
	}
	return nil
}

func testLogWater() error {
	_, err := doJSON("POST", "/v1/intakes/water", map[string]int{"amount_ml": 250}, http.StatusCreated, nil)
	return err
}

func testChat() error {
	var result struct {
		AssistantMessage struct {
			Content string `json:"content"`
		} `json:"assistant_message"`
	}
	if _, err := doJSON("POST", "/v1/chat/messages", map[string]string{"content": "hello"}, http.StatusOK, &result); err != nil {
		return err
	}
	if result.AssistantMessage.Content == "" {
		return fmt.Errorf("empty assistant reply")
	}
	return nil
}

func testCreateExport() error {
	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	payload := map[string]string{"kind": "plan", "format": "pdf"}
	if _, err := doJSON("POST", "/v1/exports", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("no export ID in response")
	}
	createdIDs["export"] = result.ID
	return nil
}

func testListExports() error {
	var result struct {
		Exports []struct {
			ID string `json:"id"`
		} `json:"exports"`
	}
	if _, err := doJSON("GET", "/v1/exports?limit=50", nil, http.StatusOK, &result); err != nil {
		return err
	}
	for _, e := range result.Exports {
		if e.ID == createdIDs["export"] {
			return nil
		}
	}
	return fmt.Errorf("created export not listed")
}

func testDownloadExport() error {
	exportID := createdIDs["export"]
	if exportID == "" {
		return fmt.Errorf("no export ID to download")
	}

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/v1/exports/%s/download", apiBase, exportID), nil)
	if err != nil {
		return err
	}
	addAuth(req)

	// Don't follow redirects automatically - we need to check redirect behavior
	originalCheckRedirect := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	defer func() { client.CheckRedirect = originalCheckRedirect }()

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Direct serve (local mode)
		return checkPDF(resp.Body)

	case http.StatusFound:
		// Redirect (S3 mode)
		location := resp.Header.Get("Location")
		if location == "" {
			return fmt.Errorf("redirect without Location header")
		}

		getResp, err := http.Get(location)
		if err != nil {
			return fmt.Errorf("failed to follow redirect: %w", err)
		}
		defer getResp.Body.Close()

		if getResp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(getResp.Body, 4096))
			return fmt.Errorf("redirect failed: status=%d body=%s", getResp.StatusCode, string(body))
		}
		return checkPDF(getResp.Body)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("unexpected status=%d body=%s", resp.StatusCode, string(body))
}

func testDeleteExport() error {
	exportID := createdIDs["export"]
	if exportID == "" {
		return fmt.Errorf("no export ID to delete")
	}
	_, err := doJSON("DELETE", "/v1/exports/"+exportID, nil, http.StatusNoContent, nil)
	return err
}

// Helper functions

// doJSON sends payload as JSON and decodes the response into out.
// wantStatus 0 accepts any status and leaves the check to the caller.
func doJSON(method, path string, payload interface{}, wantStatus int, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if wantStatus != 0 && resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(data))
	}

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode failed: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func checkPDF(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fmt.Errorf("export is not a PDF (%d bytes)", len(data))
	}
	return nil
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
