package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// *nats.Conn の代わり
type fakeConn struct {
	mu        sync.Mutex
	failFirst int
	fail      bool
	calls     int
	published map[string][][]byte
	flushes   []time.Duration
	closed    bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail || f.calls <= f.failFirst {
		return errors.New("nats: connection closed")
	}
	if f.published == nil {
		f.published = map[string][][]byte{}
	}
	f.published[subject] = append(f.published[subject], data)
	return nil
}

func (f *fakeConn) FlushTimeout(timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes = append(f.flushes, timeout)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

type testEvent struct {
	OrderID string `json:"orderId"`
}

func TestPublish_SendsJSON(t *testing.T) {
	nc := &fakeConn{}
	p := newNatsPublisher(nc, time.Millisecond)

	require.NoError(t, p.Publish(context.Background(), "order.created", testEvent{OrderID: "o1"}))

	require.Len(t, nc.published["order.created"], 1)
	var got testEvent
	require.NoError(t, json.Unmarshal(nc.published["order.created"][0], &got))
	assert.Equal(t, "o1", got.OrderID)
}

func TestPublish_RetriesTransientFailure(t *testing.T) {
	nc := &fakeConn{failFirst: 2}
	p := newNatsPublisher(nc, time.Millisecond)

	require.NoError(t, p.Publish(context.Background(), "order.created", testEvent{OrderID: "o1"}))
	assert.Equal(t, 3, nc.calls)
}

func TestPublish_BreakerOpensAfterFailures(t *testing.T) {
	nc := &fakeConn{fail: true}
	p := newNatsPublisher(nc, time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := p.Publish(ctx, "order.created", testEvent{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
	assert.Equal(t, gobreaker.StateOpen, p.cb.State())

	callsBefore := nc.calls
	err := p.Publish(ctx, "order.created", testEvent{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, callsBefore, nc.calls)
}

func TestPublish_FlushWaitsNoLongerThanContext(t *testing.T) {
	nc := &fakeConn{}
	p := newNatsPublisher(nc, time.Millisecond)

	require.NoError(t, p.Publish(context.Background(), "order.created", testEvent{}))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, p.Publish(ctx, "order.created", testEvent{}))

	require.Len(t, nc.flushes, 2)
	assert.Equal(t, flushTimeout, nc.flushes[0])
	assert.Greater(t, nc.flushes[1], time.Duration(0))
	assert.LessOrEqual(t, nc.flushes[1], 100*time.Millisecond)
}

// ブローカーが応答しなくても ctx の期限で戻る
func TestPublish_StopsRetryingAtDeadline(t *testing.T) {
	nc := &fakeConn{fail: true}
	p := newNatsPublisher(nc, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Publish(ctx, "order.created", testEvent{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 1, nc.calls)
}

func TestPublish_CanceledContext(t *testing.T) {
	nc := &fakeConn{}
	p := newNatsPublisher(nc, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, "order.created", testEvent{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, nc.calls)
}

func TestPublish_MarshalError(t *testing.T) {
	p := newNatsPublisher(&fakeConn{}, time.Millisecond)
	err := p.Publish(context.Background(), "x", make(chan int))
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	nc := &fakeConn{}
	newNatsPublisher(nc, time.Millisecond).Close()
	assert.True(t, nc.closed)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), "x", nil))
}
