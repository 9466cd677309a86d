package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestRunServesAndShutsDown(t *testing.T) {
	config := DefaultConfig()
	config.Addr = freeAddr(t)
	config.DatabasePath = filepath.Join(t.TempDir(), "texts.db")
	config.SessionSecret = "test-secret"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, config, zap.NewNop()) }()

	url := fmt.Sprintf("http://%s/healthz", config.Addr)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "ok"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunFailsWithoutSessionSecret(t *testing.T) {
	config := DefaultConfig()
	config.Addr = freeAddr(t)
	config.DatabasePath = filepath.Join(t.TempDir(), "texts.db")

	err := run(context.Background(), config, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(&Config{LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = newLogger(&Config{LogLevel: "loud"})
	assert.Error(t, err)
}
