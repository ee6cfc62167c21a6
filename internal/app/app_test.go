package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popguide/catalog-server/internal/sync/coordinator"
)

// mockCoordinator implements the coordinator.Coordinator interface for testing
type mockCoordinator struct {
	mu          sync.Mutex
	startCalled bool
	stopCalled  bool
	startErr    error
}

func (m *mockCoordinator) Start(ctx context.Context) error {
	m.mu.Lock()
	m.startCalled = true
	err := m.startErr
	m.mu.Unlock()

	if err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func (m *mockCoordinator) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled = true
	return nil
}

func (m *mockCoordinator) wasStartCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalled
}

func (m *mockCoordinator) wasStopCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalled
}

// freeAddr reserves and releases a local port
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

// createTestApp builds an app whose coordinator is replaced by a mock
func createTestApp(t *testing.T, addr string, coord *mockCoordinator) *CatalogApp {
	t.Helper()

	app, err := NewCatalogApp(context.Background(),
		WithConfig(createValidTestConfig(t)),
		WithAddress(addr),
	)
	require.NoError(t, err)
	app.components.SyncCoordinator = coord
	return app
}

func waitForHTTP(t *testing.T, url string) *http.Response {
	t.Helper()
	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(url) //nolint:gosec // test-only local URL
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 5*time.Second, 20*time.Millisecond)
	return resp
}

func TestCatalogApp_StartAndStop(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	coord := &mockCoordinator{}
	app := createTestApp(t, addr, coord)

	errChan := make(chan error, 1)
	go func() { errChan <- app.Start() }()

	resp := waitForHTTP(t, "http://"+addr+"/health")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Eventually(t, coord.wasStartCalled, time.Second, 10*time.Millisecond)

	require.NoError(t, app.Stop(5*time.Second))
	assert.True(t, coord.wasStopCalled())

	select {
	case err := <-errChan:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after Stop()")
	}
}

func TestCatalogApp_LoadsCatalog(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	app, err := NewCatalogApp(context.Background(),
		WithConfig(createValidTestConfig(t)),
		WithAddress(addr),
	)
	require.NoError(t, err)

	errChan := make(chan error, 1)
	go func() { errChan <- app.Start() }()
	t.Cleanup(func() {
		_ = app.Stop(5 * time.Second)
		<-errChan
	})

	require.Eventually(t, func() bool {
		return app.Components().Store.Current().Len() == 3
	}, 5*time.Second, 20*time.Millisecond)

	resp := waitForHTTP(t, "http://"+addr+"/v1/items?limit=2")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Count      int    `json:"count"`
		Total      int    `json:"total"`
		NextCursor string `json:"next_cursor"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, 3, page.Total)
	assert.NotEmpty(t, page.NextCursor)
}

func TestCatalogApp_StopWithoutStart(t *testing.T) {
	t.Parallel()

	coord := &mockCoordinator{}
	app := createTestApp(t, freeAddr(t), coord)

	require.NoError(t, app.Stop(time.Second))
	assert.True(t, coord.wasStopCalled())
	assert.False(t, coord.wasStartCalled())

	// idempotent
	require.NoError(t, app.Stop(time.Second))
}

func TestCatalogApp_StartError_PortInUse(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	app := createTestApp(t, listener.Addr().String(), &mockCoordinator{})

	errChan := make(chan error, 1)
	go func() { errChan <- app.Start() }()

	select {
	case startErr := <-errChan:
		require.Error(t, startErr)
		assert.Contains(t, startErr.Error(), "HTTP server failed")
	case <-time.After(5 * time.Second):
		_ = app.Stop(time.Second)
		t.Fatal("expected Start() to fail with the port in use")
	}
}

func TestCatalogApp_StartError_Coordinator(t *testing.T) {
	t.Parallel()

	app := createTestApp(t, freeAddr(t), &mockCoordinator{startErr: fmt.Errorf("boom")})

	errChan := make(chan error, 1)
	go func() { errChan <- app.Start() }()

	// a failing coordinator takes the HTTP server down with it
	select {
	case startErr := <-errChan:
		require.Error(t, startErr)
		assert.Contains(t, startErr.Error(), "sync coordinator failed")
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return")
	}
}

var _ coordinator.Coordinator = (*mockCoordinator)(nil)
