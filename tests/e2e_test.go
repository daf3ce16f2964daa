package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type cashbookContainer struct {
	testcontainers.Container
	URI string
}

func setupCashbook(ctx context.Context, t *testing.T) (*cashbookContainer, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "e2e-jwt-secret-0123456789"
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "e2e-session-secret-0123456789"
	}

	natPort := nat.Port(port + "/tcp")

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    "../",
			Dockerfile: "Dockerfile",
		},
		ExposedPorts: []string{string(natPort)},
		Env: map[string]string{
			"PORT":            port,
			"GIN_MODE":        "release",
			"DATABASE_URL":    "sqlite::memory:",
			"JWT_SECRET":      jwtSecret,
			"SESSION_SECRET":  sessionSecret,
			"ADMIN_USERS":     "admin",
			"SEED_DEMO_USERS": "true",
			"LOG_FORMAT":      "json",
		},
		WaitingFor: wait.ForHTTP("/healthz").
			WithPort(natPort).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})

	var cashbookC *cashbookContainer
	if container != nil {
		cashbookC = &cashbookContainer{Container: container}
	}
	if err != nil {
		return cashbookC, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return cashbookC, err
	}

	mappedPort, err := container.MappedPort(ctx, natPort)
	if err != nil {
		return cashbookC, err
	}

	cashbookC.URI = fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	return cashbookC, nil
}

func doJSON(t *testing.T, method, url, token, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &result))
	}
	return resp.StatusCode, result
}

func login(t *testing.T, uri, username, password string) string {
	t.Helper()

	status, result := doJSON(t, http.MethodPost, uri+"/api/v1/auth/token", "",
		fmt.Sprintf(`{"username": %q, "password": %q}`, username, password))
	require.Equal(t, http.StatusCreated, status)

	token, ok := result["token"].(string)
	require.True(t, ok, "token should be a string")
	return token
}

func TestE2E_DemoUserLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	cashbookC, err := setupCashbook(ctx, t)
	testcontainers.CleanupContainer(t, cashbookC)
	require.NoError(t, err)

	token := login(t, cashbookC.URI, "user1", "password1")

	status, me := doJSON(t, http.MethodGet, cashbookC.URI+"/api/v1/me", token, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user1", me["username"])

	status, _ = doJSON(t, http.MethodGet, cashbookC.URI+"/api/v1/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestE2E_TransactionsAndReports(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	cashbookC, err := setupCashbook(ctx, t)
	testcontainers.CleanupContainer(t, cashbookC)
	require.NoError(t, err)

	status, _ := doJSON(t, http.MethodPost, cashbookC.URI+"/api/v1/auth/register", "",
		`{"username": "alice", "password": "secret", "confirm_password": "secret"}`)
	require.Equal(t, http.StatusCreated, status)
	token := login(t, cashbookC.URI, "alice", "secret")

	for _, body := range []string{
		`{"type": "income", "category": "Salary", "amount": "1000", "occurred_at": "2024-01-10T09:00:00Z"}`,
		`{"type": "expense", "category": "Food", "amount": "200", "occurred_at": "2024-01-15T12:00:00Z"}`,
		`{"type": "expense", "category": "Rent", "amount": "400", "occurred_at": "2024-01-20T08:00:00Z"}`,
	} {
		status, _ := doJSON(t, http.MethodPost, cashbookC.URI+"/api/v1/transactions", token, body)
		require.Equal(t, http.StatusCreated, status)
	}

	status, dashboard := doJSON(t, http.MethodGet, cashbookC.URI+"/api/v1/dashboard", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1000", dashboard["total_income"])
	assert.Equal(t, "600", dashboard["total_expense"])
	assert.Equal(t, "400", dashboard["balance"])

	status, detail := doJSON(t, http.MethodGet, cashbookC.URI+"/api/v1/reports/detail?year=2024&month=1", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), detail["transaction_count"])

	expense, ok := detail["expense_categories"].(map[string]interface{})
	require.True(t, ok)
	food, ok := expense["Food"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "33.3", food["percentage"])

	otherToken := login(t, cashbookC.URI, "user2", "password2")
	status, otherDashboard := doJSON(t, http.MethodGet, cashbookC.URI+"/api/v1/dashboard", otherToken, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0", otherDashboard["balance"])
}

func TestE2E_PagesRedirectToLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test")
	}

	ctx := context.Background()
	cashbookC, err := setupCashbook(ctx, t)
	testcontainers.CleanupContainer(t, cashbookC)
	require.NoError(t, err)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(cashbookC.URI + "/monthly-report")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	page, err := http.Get(cashbookC.URI + "/login")
	require.NoError(t, err)
	defer page.Body.Close()
	assert.Equal(t, http.StatusOK, page.StatusCode)
}
