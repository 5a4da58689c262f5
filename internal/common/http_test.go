package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHttpClient(t *testing.T) {
	client, err := NewHttpClient(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, client.Timeout)

	tr, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, tr.ResponseHeaderTimeout)
}

func TestNewHttpClientTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client, err := NewHttpClient(50 * time.Millisecond)
	require.NoError(t, err)

	_, err = client.Get(srv.URL)
	assert.Error(t, err)
}
