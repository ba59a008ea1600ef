package main

import (
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReloadOnSignal(t *testing.T) {
	sig := make(chan os.Signal, 2)
	var refreshes atomic.Int32

	done := reloadOnSignal(sig, func() { refreshes.Add(1) })

	sig <- syscall.SIGHUP
	sig <- syscall.SIGHUP
	assert.Eventually(t, func() bool { return refreshes.Load() == 2 }, time.Second, 5*time.Millisecond)

	close(sig)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reload loop did not exit after its channel was closed")
	}
	assert.Equal(t, int32(2), refreshes.Load())
}
