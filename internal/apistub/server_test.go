package apistub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	body := `{"username":"pat","email":"pat@example.com","password":"pw"}`
	resp := postJSON(t, srv.URL+"/users/register", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/users/register", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterValidatesInput(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/users/register", `{"username":"pat"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRoutesRejectAnonymousCalls(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	for _, path := range []string{"/business-cards/all", "/business-cards/user", "/users/current-user"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/users/refresh-token", `{"refreshToken":"bogus"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
