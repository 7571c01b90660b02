package http_controller_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/kvgrid/kvgrid-go/internal/controller/http_controller"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries/inmemory_local_entries"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCtrl(t *testing.T, token string) *httptest.Server {
	t.Helper()

	ctrl := http_controller.New(
		"",
		token,
		inmemory_local_entries.New(),
		zerolog.New(os.Stderr),
	)

	srv := httptest.NewServer(ctrl.Handler())
	t.Cleanup(srv.Close)

	return srv
}

func doReq(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func Test_WireProtocol_RoundTrip(t *testing.T) {
	srv := setupCtrl(t, "")

	form := url.Values{"testings": {"testers"}}
	resp, err := http.Post(srv.URL+"/", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/testings", nil)
	resp, body := doReq(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "testers", body)
}

func Test_WireProtocol_GetMissing(t *testing.T) {
	srv := setupCtrl(t, "")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/nope", nil)
	resp, _ := doReq(t, req)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_WireProtocol_DeleteMissing(t *testing.T) {
	srv := setupCtrl(t, "")

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/nope", nil)
	resp, _ := doReq(t, req)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_WireProtocol_ListNewlineSeparated(t *testing.T) {
	srv := setupCtrl(t, "")

	for _, kv := range []url.Values{
		{"app:a": {"1"}},
		{"app:b": {"2"}},
		{"zzz": {"3"}},
	} {
		resp, err := http.Post(srv.URL+"/", "application/x-www-form-urlencoded", strings.NewReader(kv.Encode()))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/?prefix=app%3A", nil)
	resp, body := doReq(t, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.ElementsMatch(t, []string{"app:a", "app:b"}, strings.Split(body, "\n"))
}

func Test_WireProtocol_AuthRequired(t *testing.T) {
	srv := setupCtrl(t, "sandbox-token")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/key", nil)
	resp, _ := doReq(t, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/key", nil)
	req.Header.Set("Authorization", "Bearer sandbox-token")
	resp, _ = doReq(t, req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
