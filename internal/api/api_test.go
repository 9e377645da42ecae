package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/config"
)

// newTestServer boots the full stack on a temp SQLite database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Env:               "development",
		Debug:             true,
		SQLitePath:        filepath.Join(t.TempDir(), "test.db"),
		SessionMaxAge:     3600,
		CascadeDelete:     true,
		RequestsPerMinute: 60,
	}

	app, err := api.NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	srv := httptest.NewServer(api.NewRouter(app))
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns an HTTP client with a cookie jar, like a browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func register(t *testing.T, client *http.Client, base, name, email string) {
	t.Helper()

	resp, _ := doJSON(t, client, http.MethodPost, base+"/auth/register", map[string]string{
		"name": name, "email": email, "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, client *http.Client, base, email string) {
	t.Helper()

	resp, _ := doJSON(t, client, http.MethodPost, base+"/auth/login", map[string]string{
		"email": email, "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func errorMessage(body map[string]any) string {
	if e, ok := body["error"].(map[string]any); ok {
		msg, _ := e["message"].(string)
		return msg
	}
	return ""
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	// Register
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"name": "Alice", "email": "Alice@Example.com", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")

	// Duplicate registration conflicts regardless of case
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"name": "Alice Again", "email": "ALICE@example.com", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password and unknown email read identically
	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	wrongPass := errorMessage(body)

	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, wrongPass, errorMessage(body))

	// Login sets the session cookie
	login(t, client, srv.URL, "alice@example.com")

	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@example.com", body["user"].(map[string]any)["email"])

	// Signout, then the session is gone
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/auth/signout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Second signout has no cookie left to destroy
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/auth/signout", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_ShortPassword(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	// Any non-empty password is accepted; there is no length policy.
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"name": "Alice", "email": "a@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "a@x.com", body["user"].(map[string]any)["email"])

	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/auth/login", map[string]string{
		"email": "a@x.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister_TrimsWhitespace(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	// Whitespace-only fields count as missing
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"name": "Alice", "email": "   ", "password": "pw1",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name, email and password are required", errorMessage(body))

	// Surrounding whitespace is stripped before storage
	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"name": "  Alice  ", "email": " alice@example.com ", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "alice@example.com", user["email"])
}

func TestAuthRequired_DistinctMessages(t *testing.T) {
	srv := newTestServer(t)

	// No cookie at all
	resp, body := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/project", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "authentication required", errorMessage(body))

	// A cookie the store does not know
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/project", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session", Value: "deadbeef"})
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&decoded))
	require.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	assert.Equal(t, "invalid or expired session", errorMessage(decoded))
}

func TestProjectCRUD(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	register(t, client, srv.URL, "Alice", "alice@example.com")
	login(t, client, srv.URL, "alice@example.com")

	// Create
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/project/create", map[string]string{
		"name": "Website", "description": "marketing site",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	projectID := body["project"].(map[string]any)["id"].(string)

	// Missing name is a validation error
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/project/create", map[string]string{
		"description": "no name",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// List is scoped to the caller
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/project", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["projects"].([]any), 1)

	// Get
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/project/"+projectID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Website", body["project"].(map[string]any)["name"])

	// Update
	resp, body = doJSON(t, client, http.MethodPut, srv.URL+"/project/update/"+projectID, map[string]string{
		"description": "the new site",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := body["project"].(map[string]any)
	assert.Equal(t, "Website", updated["name"])
	assert.Equal(t, "the new site", updated["description"])

	// Delete
	resp, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/project/delete/"+projectID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/project/"+projectID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProject_CrossUserMutationForbidden(t *testing.T) {
	srv := newTestServer(t)

	alice := newClient(t)
	register(t, alice, srv.URL, "Alice", "alice@example.com")
	login(t, alice, srv.URL, "alice@example.com")

	bob := newClient(t)
	register(t, bob, srv.URL, "Bob", "bob@example.com")
	login(t, bob, srv.URL, "bob@example.com")

	resp, body := doJSON(t, alice, http.MethodPost, srv.URL+"/project/create", map[string]string{
		"name": "Alice's Project",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	projectID := body["project"].(map[string]any)["id"].(string)

	// Bob can read it but not touch it
	resp, _ = doJSON(t, bob, http.MethodGet, srv.URL+"/project/"+projectID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, bob, http.MethodPut, srv.URL+"/project/update/"+projectID, map[string]string{
		"name": "Bob's Now",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, bob, http.MethodDelete, srv.URL+"/project/delete/"+projectID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Bob's list does not include Alice's project
	resp, body = doJSON(t, bob, http.MethodGet, srv.URL+"/project", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["projects"])
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	register(t, client, srv.URL, "Alice", "alice@example.com")
	login(t, client, srv.URL, "alice@example.com")

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/project/create", map[string]string{
		"name": "Launch",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	projectID := body["project"].(map[string]any)["id"].(string)

	// Create by project name; response carries the resolved project
	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/task/create", map[string]string{
		"title":        "Write announcement",
		"description":  "blog post",
		"assigned_to":  "alice",
		"due_date":     "2026-10-01",
		"project_name": "Launch",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	taskID := body["task"].(map[string]any)["id"].(string)
	assert.Equal(t, projectID, body["project"].(map[string]any)["id"])
	assert.Equal(t, "Pending", body["task"].(map[string]any)["status"])

	// Create by project id with an RFC 3339 due date
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/task/create", map[string]string{
		"title":       "Ship it",
		"description": "press the button",
		"assigned_to": "alice",
		"due_date":    "2026-10-02T09:00:00Z",
		"project_id":  projectID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Missing required field
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/task/create", map[string]string{
		"title":        "No description",
		"assigned_to":  "alice",
		"due_date":     "2026-10-01",
		"project_name": "Launch",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Bad status
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/task/create", map[string]string{
		"title":        "Weird status",
		"description":  "d",
		"status":       "Paused",
		"assigned_to":  "alice",
		"due_date":     "2026-10-01",
		"project_name": "Launch",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// List all and by project name
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/task", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["tasks"].([]any), 2)

	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/task/project/Launch", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["tasks"].([]any), 2)

	// Update status
	resp, body = doJSON(t, client, http.MethodPut, srv.URL+"/task/update/"+taskID, map[string]string{
		"status": "Completed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Completed", body["task"].(map[string]any)["status"])

	// Delete
	resp, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/task/delete/"+taskID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/task/"+taskID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTask_ForeignProjectNameLooksMissing(t *testing.T) {
	srv := newTestServer(t)

	alice := newClient(t)
	register(t, alice, srv.URL, "Alice", "alice@example.com")
	login(t, alice, srv.URL, "alice@example.com")

	bob := newClient(t)
	register(t, bob, srv.URL, "Bob", "bob@example.com")
	login(t, bob, srv.URL, "bob@example.com")

	resp, _ := doJSON(t, alice, http.MethodPost, srv.URL+"/project/create", map[string]string{
		"name": "Secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Bob cannot target Alice's project by name
	resp, _ = doJSON(t, bob, http.MethodPost, srv.URL+"/task/create", map[string]string{
		"title":        "Sneaky",
		"description":  "d",
		"assigned_to":  "bob",
		"due_date":     "2026-10-01",
		"project_name": "Secret",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Nor list its tasks
	resp, _ = doJSON(t, bob, http.MethodGet, srv.URL+"/task/project/Secret", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjectDelete_CascadesToTasks(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	register(t, client, srv.URL, "Alice", "alice@example.com")
	login(t, client, srv.URL, "alice@example.com")

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/project/create", map[string]string{
		"name": "Doomed",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	projectID := body["project"].(map[string]any)["id"].(string)

	for i := 0; i < 2; i++ {
		resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/task/create", map[string]string{
			"title":       fmt.Sprintf("Task %d", i),
			"description": "d",
			"assigned_to": "alice",
			"due_date":    "2026-10-01",
			"project_id":  projectID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/project/delete/"+projectID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/task", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["tasks"])
}
