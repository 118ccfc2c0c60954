//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/api"
	"github.com/sells-group/prospect-cli/internal/cache"
	"github.com/sells-group/prospect-cli/internal/config"
)

func TestResolvePort_FlagSet(t *testing.T) {
	assert.Equal(t, 9090, resolvePort(9090, 8080))
}

func TestResolvePort_FlagZero(t *testing.T) {
	assert.Equal(t, 8080, resolvePort(0, 8080))
}

func TestResolvePort_BothZero(t *testing.T) {
	assert.Equal(t, 0, resolvePort(0, 0))
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{ReadTimeoutSecs: 5, WriteTimeoutSecs: 5},
		Search: config.SearchConfig{RateLimit: 5, TimeoutSecs: 5, Retries: 1, DefaultMaxResults: 50},
		Crawl:  config.CrawlConfig{MaxPages: 10, MaxConcurrent: 5, TimeoutSecs: 5},
	}
}

func TestStartServer_GracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := testConfig()

	cr := newCrawler(c, cache.Noop{})
	srv := api.New(newParser(c), newSearcher(c, cr), cr, newScorer(c), api.WithVersion("test"))

	// Find a free port.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- startServer(ctx, srv.Routes(), port, c.Server)
	}()

	// Wait for server to be ready.
	var ready bool
	for range 30 {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err == nil {
			resp.Body.Close()
			ready = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, ready, "server did not become ready in time")

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])

	// Trigger graceful shutdown.
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestStartServer_ListenError(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	err = startServer(context.Background(), http.NotFoundHandler(), port, config.ServerConfig{})
	assert.Error(t, err)
}
