package ops

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnqueueRunsInOrder(t *testing.T) {
	o := New()
	var order []int
	var mu sync.Mutex
	for i := 0; i < 5; i++ {
		i := i
		o.Enqueue(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	o.Done()

	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestEnqueueAfterCloseIsDropped(t *testing.T) {
	o := New()
	o.Close()

	var ran int32
	o.Enqueue(func() { atomic.StoreInt32(&ran, 1) })
	o.Done()

	require.Equal(t, int32(0), atomic.LoadInt32(&ran))
}

func TestIsEmpty(t *testing.T) {
	o := New()
	require.True(t, o.IsEmpty())
	o.Done()
	require.True(t, o.IsEmpty())
}
