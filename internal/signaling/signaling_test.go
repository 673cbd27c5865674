package signaling

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "offer-sdp", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":{"sdp":"answer-sdp"},"candidate":{"candidate":"candidate:1 1 UDP 1755993416 127.0.0.1 14192 typ host"}}`))
	}))
	defer srv.Close()

	c := NewClient()
	answer, err := c.Connect(srv.URL, "offer-sdp")
	require.NoError(t, err)
	require.Equal(t, "answer-sdp", answer.SDP)
	require.Equal(t, "candidate:1 1 UDP 1755993416 127.0.0.1 14192 typ host", answer.Candidate)
}

func TestConnectMissingCandidateField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":{"sdp":"answer-sdp"}}`))
	}))
	defer srv.Close()

	c := NewClient()
	_, err := c.Connect(srv.URL, "offer-sdp")
	require.Error(t, err)
}

func TestConnectMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient()
	_, err := c.Connect(srv.URL, "offer-sdp")
	require.Error(t, err)
}
