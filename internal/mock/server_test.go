package mock

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"lexbot/sdk/backend"
)

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewServer("").Handler())
	defer srv.Close()

	health, err := backend.NewClient(srv.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, len(documents), health.DocumentCount())
	assert.Equal(t, documents, health.Documents)
}

func TestQueryEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewServer("").Handler())
	defer srv.Close()
	client := backend.NewClient(srv.URL)

	resp, err := client.Query(context.Background(), "¿Cuáles son las sanciones por conducir embriagado?")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Answer)
	require.NotEmpty(t, resp.Sources)
	assert.Equal(t, "codigo_nacional_transito.pdf", resp.Sources[0].Source)
	assert.Contains(t, resp.DocumentsConsulted, "codigo_nacional_transito.pdf")
	assert.LessOrEqual(t, len(resp.Sources), maxSources)
}

func TestQueryEndpointNoMatch(t *testing.T) {
	srv := httptest.NewServer(NewServer("").Handler())
	defer srv.Close()

	resp, err := backend.NewClient(srv.URL).Query(context.Background(), "receta de ajiaco")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Empty(t, resp.DocumentsConsulted)
}

func TestQueryEndpointBlankQuestion(t *testing.T) {
	srv := httptest.NewServer(NewServer("").Handler())
	defer srv.Close()

	res, err := http.Post(srv.URL+"/query", "application/json", strings.NewReader(`{"question":"  "}`))
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Pregunta vacía", gjson.GetBytes(body, "detail").String())
}

func TestQueryEndpointMalformedBody(t *testing.T) {
	srv := httptest.NewServer(NewServer("").Handler())
	defer srv.Close()

	res, err := http.Post(srv.URL+"/query", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, "JSON decode error", gjson.GetBytes(body, "detail.0.msg").String())
}

func TestFailureInjection(t *testing.T) {
	srv := httptest.NewServer(NewServer("", WithFailRate(1), WithSeed(1)).Handler())
	defer srv.Close()

	_, err := backend.NewClient(srv.URL).Query(context.Background(), "constitución")
	require.Error(t, err)

	var berr *backend.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, backend.KindServer, berr.Kind)
	assert.Equal(t, http.StatusInternalServerError, berr.Status)
	assert.Contains(t, berr.Detail(), "fallo simulado")
}

func TestLatencyTriggersClientTimeout(t *testing.T) {
	srv := httptest.NewServer(NewServer("", WithLatency(time.Second)).Handler())
	defer srv.Close()

	client := backend.NewClient(srv.URL, backend.WithQueryTimeout(50*time.Millisecond))
	_, err := client.Query(context.Background(), "constitución")
	require.Error(t, err)
	assert.True(t, backend.IsTimeout(err), "got %v", err)
}

func TestRootAndMethods(t *testing.T) {
	srv := httptest.NewServer(NewServer("").Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "online", gjson.GetBytes(body, "status").String())

	res, err = http.Get(srv.URL + "/query")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)

	res, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer("127.0.0.1:0").Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBodySentence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"skips article heading", "ARTÍCULO 11. El derecho a la vida es inviolable. No habrá pena de muerte.", "El derecho a la vida es inviolable."},
		{"heading and one sentence", "ARTÍCULO 40. Todo ciudadano tiene derecho a participar.", "Todo ciudadano tiene derecho a participar."},
		{"no heading", "Texto sin encabezado", "Texto sin encabezado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bodySentence(tt.in))
		})
	}
}
