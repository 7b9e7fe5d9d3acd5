package common

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mutex    sync.Mutex
	messages []string
}

func (r *recordingLogger) Log(message string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingLogger) Messages() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.messages...)
}

func TestJobQueue_RunsJobsInOrder(t *testing.T) {
	logger := &recordingLogger{}
	queue := NewJobQueue(logger, 10)
	defer queue.Stop()

	var mutex sync.Mutex
	var order []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, queue.Enqueue(func() error {
			mutex.Lock()
			order = append(order, i)
			mutex.Unlock()
			if i == 4 {
				close(done)
			}
			return nil
		}))
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs weren't processed")
	}
	mutex.Lock()
	defer mutex.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestJobQueue_LogsFailedJobs(t *testing.T) {
	logger := &recordingLogger{}
	queue := NewJobQueue(logger, 1)

	require.True(t, queue.Enqueue(func() error {
		return errors.New("boom")
	}))
	assert.Eventually(t, func() bool {
		return len(logger.Messages()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	queue.Stop()

	assert.Contains(t, logger.Messages()[0], "boom")
}

func TestJobQueue_DropsJobsWhenFull(t *testing.T) {
	logger := &recordingLogger{}
	queue := NewJobQueue(logger, 1)
	started := make(chan struct{})
	gate := make(chan struct{})

	require.True(t, queue.Enqueue(func() error {
		close(started)
		<-gate
		return nil
	}))
	<-started
	require.True(t, queue.Enqueue(func() error { return nil }))
	assert.False(t, queue.Enqueue(func() error { return nil }))

	close(gate)
	queue.Stop()
	assert.False(t, queue.Enqueue(func() error { return nil }))
}
