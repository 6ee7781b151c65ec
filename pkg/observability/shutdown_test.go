package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShutdownManager(timeout time.Duration, servers ...*http.Server) *ShutdownManager {
	logger := NewLogger(ErrorLevel, io.Discard)
	return NewShutdownManager(logger, timeout, servers...)
}

// sendTerm delivers SIGTERM to the test process after a short delay so
// WaitForShutdown has registered its signal handler.
func sendTerm(t *testing.T) {
	t.Helper()
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
	}()
}

func TestNewShutdownManagerDefaultTimeout(t *testing.T) {
	sm := testShutdownManager(0)
	assert.Equal(t, 30*time.Second, sm.shutdownTimeout)
}

func TestWaitForShutdownRunsRegisteredFuncs(t *testing.T) {
	sm := testShutdownManager(2 * time.Second)

	var calls int32
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	sendTerm(t)
	err := sm.WaitForShutdown()

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestWaitForShutdownDrainsServers(t *testing.T) {
	// An unstarted server shuts down cleanly, which is enough to exercise
	// the drain loop.
	srv := &http.Server{Addr: ":0"}
	sm := testShutdownManager(2*time.Second, srv)

	sendTerm(t)
	assert.NoError(t, sm.WaitForShutdown())
}

func TestWaitForShutdownReportsFuncErrors(t *testing.T) {
	sm := testShutdownManager(2 * time.Second)

	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		return errors.New("close failed")
	})

	sendTerm(t)
	err := sm.WaitForShutdown()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
}

func TestWaitForShutdownSurvivesPanickingFunc(t *testing.T) {
	sm := testShutdownManager(2 * time.Second)

	var ran int32
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		panic("cleanup blew up")
	})
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	sendTerm(t)

	var err error
	require.NotPanics(t, func() {
		err = sm.WaitForShutdown()
	})
	assert.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestWaitForShutdownTimesOut(t *testing.T) {
	sm := testShutdownManager(100 * time.Millisecond)

	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(500 * time.Millisecond)
		return nil
	})

	sendTerm(t)
	err := sm.WaitForShutdown()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
