package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
)

func TestNewServer(t *testing.T) {
	mux := http.NewServeMux()
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 8088, ReadTimeout: time.Second, WriteTimeout: 2 * time.Second}
	server := NewServer(cfg, mux, logging.NewNopLogger())

	require.NotNil(t, server)
	assert.Equal(t, "127.0.0.1:8088", server.Addr())
	assert.Equal(t, time.Second, server.srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, server.srv.WriteTimeout)
	assert.Equal(t, http.Handler(mux), server.Handler())
}

func TestServer_ServeAndStop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	server := NewServer(config.ServerConfig{ShutdownTimeout: time.Second}, mux, logging.NewNopLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, server.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Stop")
	}
}

func TestServer_StopWithoutStart(t *testing.T) {
	server := NewServer(config.ServerConfig{Port: 0}, http.NewServeMux(), logging.NewNopLogger())
	assert.NoError(t, server.Stop(context.Background()))
}

//Personal.AI order the ending
