package restyutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestInstrumentClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	output := NewMemoryOutput()
	client := resty.New()
	InstrumentClient(client, output)

	res, err := client.R().Get(server.URL + "/wiki/page")
	require.NoError(t, err)
	require.Equal(t, 200, res.StatusCode())

	dump, ok := output.Get("1")
	require.True(t, ok)
	require.Contains(t, dump, "GET "+server.URL+"/wiki/page")
	require.Contains(t, dump, "X-Test: yes")
	require.Contains(t, dump, "<html>ok</html>")
}

func TestFormatHeaders(t *testing.T) {
	require.Equal(t, "", formatHeaders(nil))
	require.Equal(t, "A: 1\nB: 2\nB: 3", formatHeaders(http.Header{
		"B": {"2", "3"},
		"A": {"1"},
	}))
}
