package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverPanicSwallowsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(ErrorLevel, &buf)

	require.NotPanics(t, func() {
		defer RecoverPanic(logger, "test job")
		panic("boom")
	})

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "PANIC recovered", entry["msg"])
	assert.Equal(t, "boom", entry["panic"])
	assert.Equal(t, "test job", entry["context"])
	assert.NotEmpty(t, entry["stack"])
}

func TestRecoverPanicQuietWithoutPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(ErrorLevel, &buf)

	func() {
		defer RecoverPanic(logger, "test job")
	}()

	assert.Empty(t, buf.String())
}

func TestMustRecover(t *testing.T) {
	assert.NoError(t, MustRecover(nil))

	err := MustRecover("boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestMustRecoverConvertsPanic(t *testing.T) {
	var err error
	func() {
		defer func() {
			err = MustRecover(recover())
		}()
		panic("worker died")
	}()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker died")
}
