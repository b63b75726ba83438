package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"
)

// The suite runs against a live server; point CLINIC_API_URL at it
// (for example http://localhost:8080/api/v1). Without it the suite is a
// no-op so a plain unit-test run stays green.
var (
	baseURL       string
	adminEmail    string
	adminPassword string

	adminSession   *session
	doctorSession  *session
	patientSession *session

	doctorID    string
	patientID   string
	doctorName  string
	patientName string
)

// APIResponse is the server's response envelope
type APIResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// TestResponse wraps the envelope for assertions
type TestResponse struct {
	Code    int
	Status  string
	Message string
	Data    map[string]interface{}
	List    []interface{}
	RawData string
}

func (r TestResponse) IsSuccess() bool {
	return r.Status == "success"
}

func (r TestResponse) GetString(key string) string {
	if r.Data == nil {
		return ""
	}
	if v, ok := r.Data[key].(string); ok {
		return v
	}
	return ""
}

// session carries the HttpOnly cookies the server sets at login and
// registration. Cookies are stored by hand because the server marks them
// Secure and a plain jar drops those over http.
type session struct {
	mu      sync.Mutex
	cookies map[string]string
}

func newSession() *session {
	return &session{cookies: make(map[string]string)}
}

func (s *session) apply(req *http.Request) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, value := range s.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func (s *session) update(resp *http.Response) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cookie := range resp.Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(s.cookies, cookie.Name)
			continue
		}
		s.cookies[cookie.Name] = cookie.Value
	}
}

func checkAPIServer() error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return fmt.Errorf("API server not reachable: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestMain(m *testing.M) {
	baseURL = os.Getenv("CLINIC_API_URL")
	if baseURL == "" {
		fmt.Println("CLINIC_API_URL not set, skipping API suite")
		os.Exit(0)
	}
	adminEmail = envOr("CLINIC_API_ADMIN_EMAIL", "admin@clinic.example")
	adminPassword = envOr("CLINIC_API_ADMIN_PASSWORD", "changeme-admin")

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		if err := checkAPIServer(); err != nil {
			if i == maxRetries-1 {
				fmt.Printf("Error: %v\nMake sure the API server is running at %s\n", err, baseURL)
				os.Exit(1)
			}
			fmt.Printf("Waiting for API server (attempt %d/%d)...\n", i+1, maxRetries)
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}

	setupAuth()
	setupTestData()

	os.Exit(m.Run())
}

func setupAuth() {
	adminSession = newSession()
	resp := makeRequest("POST", "/auth/login", map[string]interface{}{
		"email":    adminEmail,
		"password": adminPassword,
	}, adminSession)
	if !resp.IsSuccess() {
		fmt.Printf("Failed to login as admin: %s\n", resp.Message)
		os.Exit(1)
	}
}

// setupTestData creates one unclaimed doctor and one unclaimed patient
// record, then claims each through verify-identity and register so the
// tests have a doctor session and a patient session to work with.
func setupTestData() {
	nonce := time.Now().UnixNano()
	doctorName = uniqueName("Dr Test")
	patientName = uniqueName("Test Patient")
	licenseNumber := fmt.Sprintf("LIC-%d", nonce)
	healthNumber := fmt.Sprintf("%010d", nonce%10000000000)

	resp := makeRequest("POST", "/doctors", map[string]interface{}{
		"name":           doctorName,
		"license_number": licenseNumber,
		"specialization": "General Practice",
	}, adminSession)
	if !resp.IsSuccess() {
		fmt.Printf("Failed to create doctor: %s\n", resp.Message)
		os.Exit(1)
	}
	doctorID = resp.GetString("id")

	resp = makeRequest("POST", "/patients", map[string]interface{}{
		"name":                   patientName,
		"personal_health_number": healthNumber,
		"date_of_birth":          "1990-01-01T00:00:00Z",
	}, adminSession)
	if !resp.IsSuccess() {
		fmt.Printf("Failed to create patient: %s\n", resp.Message)
		os.Exit(1)
	}
	patientID = resp.GetString("id")

	doctorSession = registerSession(doctorName, map[string]interface{}{
		"name":           doctorName,
		"license_number": licenseNumber,
	})
	patientSession = registerSession(patientName, map[string]interface{}{
		"name":                   patientName,
		"personal_health_number": healthNumber,
	})
}

// registerSession walks the two-step claim: verify-identity leaves the
// verification cookie on the session, register consumes it and signs in.
func registerSession(name string, identity map[string]interface{}) *session {
	s := newSession()

	resp := makeRequest("POST", "/auth/verify-identity", identity, s)
	if !resp.IsSuccess() {
		fmt.Printf("Failed to verify identity for %s: %s\n", name, resp.Message)
		os.Exit(1)
	}

	resp = makeRequest("POST", "/auth/register", map[string]interface{}{
		"email":         fmt.Sprintf("user_%d@example.com", time.Now().UnixNano()),
		"password":      "s3cret-password",
		"date_of_birth": "1990-01-01T00:00:00Z",
	}, s)
	if !resp.IsSuccess() {
		fmt.Printf("Failed to register %s: %s\n", name, resp.Message)
		os.Exit(1)
	}
	return s
}

func makeRequest(method, path string, body interface{}, s *session) TestResponse {
	var buf io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		buf = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+path, buf)
	if err != nil {
		return TestResponse{Status: "error", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	s.apply(req)

	client := &http.Client{Timeout: 10 * time.Second}
	response, err := client.Do(req)
	if err != nil {
		return TestResponse{Status: "error", Message: err.Error()}
	}
	defer response.Body.Close()
	s.update(response)

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return TestResponse{Code: response.StatusCode, Status: "error", Message: err.Error()}
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return TestResponse{
			Code:    response.StatusCode,
			Status:  "error",
			Message: fmt.Sprintf("failed to parse response: %s\nraw: %s", err.Error(), string(respBody)),
		}
	}

	testResp := TestResponse{
		Code:    response.StatusCode,
		Status:  apiResp.Status,
		Message: apiResp.Message,
		RawData: string(apiResp.Data),
	}
	if len(apiResp.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(apiResp.Data, &data); err == nil {
			testResp.Data = data
		} else {
			var list []interface{}
			if err := json.Unmarshal(apiResp.Data, &list); err == nil {
				testResp.List = list
			}
		}
	}
	return testResp
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, time.Now().UnixNano())
}
