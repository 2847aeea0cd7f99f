package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SV_API_BASE_URL", baseURL)
	t.Setenv("SV_USER_ID", "7")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func newBackendStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/actividades/12", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":12,"titulo":"Círculo de escucha","estado":"en_progreso","total_participantes":2,"participantes_completados":1}`))
	})
	mux.HandleFunc("/actividades/12/mi-participacion", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/actividades/12/participar", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":305}`))
	})
	mux.HandleFunc("/actividades/12/participantes", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":306,"usuario_id":8,"nombre_usuario":"Luis","estado":"pendiente"}]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, "http://localhost:0", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestJoinHappyPath(t *testing.T) {
	server := newBackendStub(t)

	stdout, _, err := executeCLI(t, server.URL, "join", "12")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Unido a \"Círculo de escucha\"")
	assert.Contains(t, stdout, "sv record 12")
}

func TestJoinUnknownActivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, _, err := executeCLI(t, server.URL, "join", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activity not found")
}

func TestStatusJSONOutput(t *testing.T) {
	server := newBackendStub(t)

	stdout, _, err := executeCLI(t, server.URL, "status", "12", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, `"phase": "not_participating"`)
	assert.Contains(t, stdout, "Círculo de escucha")
}

func TestStatusRendersReport(t *testing.T) {
	server := newBackendStub(t)

	stdout, _, err := executeCLI(t, server.URL, "status", "12", "--roster")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Círculo de escucha")
	assert.Contains(t, stdout, "avance: 50%")
	assert.Contains(t, stdout, "Luis")
}

func TestRetryWithoutPendingSubmission(t *testing.T) {
	server := newBackendStub(t)

	_, _, err := executeCLI(t, server.URL, "retry", "12")
	require.Error(t, err)
}

func TestRecordRejectsTooFewSeconds(t *testing.T) {
	server := newBackendStub(t)

	_, _, err := executeCLI(t, server.URL, "record", "12", "--seconds", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 5 seconds")
}
