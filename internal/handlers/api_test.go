package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/kardemumma/internal/app"
)

// setupServer spins up the full stack with auth disabled, so identity comes
// from X-Username/X-Role headers.
func setupServer(t *testing.T) *httptest.Server {
	dir := t.TempDir()
	config := fmt.Sprintf(`[server]
port = ":0"
enable_auth = false

[auth]
accounts_file = %q
bcrypt_cost = 4

[database]
dsn = %q
`, filepath.Join(dir, "users.json"), filepath.Join(dir, "db.json"))

	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	service, err := app.NewService(configPath)
	require.NoError(t, err, "Failed to build service")

	server := httptest.NewServer(NewAPI(service).Router())
	t.Cleanup(func() {
		server.Close()
		service.Close()
	})
	return server
}

func call(t *testing.T, server *httptest.Server, method, path string, body interface{}, headers map[string]string) (int, map[string]interface{}) {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, server.URL+path, &payload)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestAPI_CourseLifecycle(t *testing.T) {
	server := setupServer(t)

	status, body := call(t, server, "POST", "/api/secure/courses", map[string]string{
		"term": "2024S", "code": "CS101", "section": "A", "name": "Intro",
	}, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])

	t.Run("Duplicate conflicts", func(t *testing.T) {
		status, body := call(t, server, "POST", "/api/secure/courses", map[string]string{
			"term": "2024S", "code": "CS101", "section": "A", "name": "Again",
		}, nil)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, false, body["ok"])
	})

	t.Run("Listing sees the course", func(t *testing.T) {
		status, body := call(t, server, "GET", "/api/secure/courses", nil, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body["courses"], 1)
	})

	t.Run("Student role cannot manage courses", func(t *testing.T) {
		status, body := call(t, server, "POST", "/api/secure/courses", map[string]string{
			"term": "2024S", "code": "CS102", "section": "A", "name": "Intro II",
		}, map[string]string{"X-Role": "student"})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, false, body["ok"])
	})
}

func TestAPI_SignupFlow(t *testing.T) {
	server := setupServer(t)

	status, _ := call(t, server, "POST", "/api/secure/courses", map[string]string{
		"term": "2024S", "code": "CS101", "section": "A", "name": "Intro",
	}, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, server, "POST", "/api/secure/members/1", map[string]string{
		"username": "ivanov.ii", "firstName": "Ivan", "lastName": "Ivanov", "password": "pw",
	}, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, server, "POST", "/api/secure/sheets/1", map[string]string{
		"assignmentName": "Lab 1",
	}, nil)
	require.Equal(t, http.StatusOK, status)

	start := time.Now().Add(5 * time.Hour).UTC()
	status, _ = call(t, server, "POST", "/api/secure/slots/1", map[string]interface{}{
		"startTime":  start.Format(time.RFC3339),
		"endTime":    start.Add(time.Hour).Format(time.RFC3339),
		"maxMembers": 2,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	asStudent := map[string]string{"X-Username": "ivanov.ii", "X-Role": "student"}

	status, body := call(t, server, "POST", "/api/secure/students/signup/1", nil, asStudent)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])

	t.Run("Duplicate signup conflicts", func(t *testing.T) {
		status, _ := call(t, server, "POST", "/api/secure/students/signup/1", nil, asStudent)
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("My signups shows the reservation", func(t *testing.T) {
		status, body := call(t, server, "GET", "/api/secure/students/my-signups", nil, asStudent)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body["signups"], 1)
	})

	t.Run("Open search finds the course without auth", func(t *testing.T) {
		status, body := call(t, server, "GET", "/api/open/search?code=cs1", nil, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body["results"], 1)
	})

	t.Run("Grade the signup and audit it", func(t *testing.T) {
		status, body := call(t, server, "POST", "/api/secure/grades/1/1", map[string]interface{}{
			"baseMark": 70, "bonus": 5, "penalty": 2, "comment": "solid",
		}, map[string]string{"X-Username": "ta1", "X-Role": "ta"})
		require.Equal(t, http.StatusOK, status)

		grade := body["grade"].(map[string]interface{})
		assert.Equal(t, float64(73), grade["finalMark"])

		status, body = call(t, server, "GET", "/api/secure/grades/audit/1", nil, nil)
		require.Equal(t, http.StatusOK, status)
		audit := body["audit"].(map[string]interface{})
		assert.Equal(t, "Updated grade to 73 (base: 70, bonus: 5, penalty: 2)", audit["summary"])
	})

	t.Run("Missing base mark is rejected", func(t *testing.T) {
		status, body := call(t, server, "POST", "/api/secure/grades/1/1", map[string]interface{}{
			"bonus": 1, "comment": "oops",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "baseMark is required", body["error"])
	})
}
