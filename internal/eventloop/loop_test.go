package eventloop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRunsInOrder(t *testing.T) {
	l := New()
	go l.Run(context.Background())
	defer l.Close()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	require.NoError(t, l.Do(context.Background(), func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestAfter(t *testing.T) {
	l := New()
	go l.Run(context.Background())
	defer l.Close()

	var fired int32
	l.After(10*time.Millisecond, func() { atomic.StoreInt32(&fired, 1) })
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&fired) == 1 }, time.Second, 5*time.Millisecond)
}

func TestCloseStopsTimers(t *testing.T) {
	l := New()
	go l.Run(context.Background())

	var fired int32
	l.After(50*time.Millisecond, func() { atomic.StoreInt32(&fired, 1) })
	l.Close()
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrClosed)
	assert.True(t, l.Closed())
}

func TestRunStopsWithContext(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(stopped)
	}()
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.True(t, l.Closed())
}
