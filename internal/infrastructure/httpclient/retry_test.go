package httpclient

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_RetriesServerErrors(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	core, logs := observer.New(zap.DebugLevel)
	c := New(zap.New(core), 3, time.Second)
	c.RetryWaitMin, c.RetryWaitMax = time.Millisecond, 5*time.Millisecond

	req, err := retryablehttp.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.NotZero(t, logs.Len())
}

func TestNew_Settings(t *testing.T) {
	c := New(nil, 1, 3*time.Second)
	assert.Equal(t, 1, c.RetryMax)
	assert.Equal(t, 3*time.Second, c.HTTPClient.Timeout)
	assert.Nil(t, c.Logger)
}
