package park

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandle_UnparkBeforePark(t *testing.T) {
	req := require.New(t)
	h := NewHandle()

	// Given a permit issued before anyone parks
	req.True(h.Unpark())

	// When the caller parks
	done := make(chan struct{})
	go func() {
		h.Park()
		close(done)
	}()

	// Then the park returns immediately
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("park did not consume the pending permit")
	}
}

func TestHandle_ParkBlocksUntilUnpark(t *testing.T) {
	req := require.New(t)
	h := NewHandle()

	done := make(chan struct{})
	go func() {
		h.Park()
		close(done)
	}()

	req.Eventually(h.Parked, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("park returned without a permit")
	case <-time.After(20 * time.Millisecond):
	}

	req.True(h.Unpark())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unpark did not release the parked caller")
	}
	req.False(h.Parked())
}

func TestHandle_DoubleUnparkCoalesces(t *testing.T) {
	req := require.New(t)
	h := NewHandle()

	req.True(h.Unpark())
	req.False(h.Unpark(), "a second permit must not be stored")
}

func TestHandle_ReleaseWakesParked(t *testing.T) {
	req := require.New(t)
	h := NewHandle()

	done := make(chan struct{})
	go func() {
		h.Park()
		close(done)
	}()
	req.Eventually(h.Parked, time.Second, time.Millisecond)

	h.Release()
	<-done
	req.True(h.Released())
}
