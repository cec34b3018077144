package service

import (
	"sync"
	"testing"

	"go.uber.org/atomic"

	"github.com/stretchr/testify/require"
)

func TestTaskQueueDrainWaitsForSubmitted(t *testing.T) {
	queue := NewTaskQueue(2, 64)
	defer queue.Stop()

	var ran atomic.Int64
	for range 20 {
		queue.Submit("count", func() {
			ran.Inc()
		})
	}
	queue.Drain()
	require.EqualValues(t, 20, ran.Load())
}

func TestTaskQueueRecoversPanic(t *testing.T) {
	queue := NewTaskQueue(1, 8)
	defer queue.Stop()

	var ran atomic.Bool
	queue.Submit("boom", func() {
		panic("boom")
	})
	queue.Submit("after", func() {
		ran.Store(true)
	})
	queue.Drain()
	require.True(t, ran.Load())
}

func TestTaskQueueDropsWhenFull(t *testing.T) {
	queue := NewTaskQueue(1, 1)
	defer queue.Stop()

	block := make(chan struct{})
	var started sync.WaitGroup
	started.Add(1)
	queue.Submit("block", func() {
		started.Done()
		<-block
	})
	started.Wait()

	// one slot in the channel, everything beyond it is dropped
	var ran atomic.Int64
	for range 10 {
		queue.Submit("maybe", func() {
			ran.Inc()
		})
	}
	close(block)
	queue.Drain()
	require.EqualValues(t, 1, ran.Load())
}

func TestTaskQueueConcurrentSubmitAndStop(t *testing.T) {
	// a submit in flight while Stop closes the channel must be
	// dropped or delivered, never panic
	for range 50 {
		queue := NewTaskQueue(2, 16)
		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 25 {
					queue.Submit("noop", func() {})
				}
			}()
		}
		queue.Stop()
		wg.Wait()
	}
}

func TestTaskQueueRejectsAfterStop(t *testing.T) {
	queue := NewTaskQueue(1, 8)
	queue.Stop()

	var ran atomic.Bool
	queue.Submit("late", func() {
		ran.Store(true)
	})
	queue.Drain()
	require.False(t, ran.Load())
}
