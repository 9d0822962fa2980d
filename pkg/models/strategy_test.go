package models

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"smart-notes-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	calls := 0
	strategies := []Strategy[string]{
		{Name: "gpu", Init: func(context.Context) (string, error) {
			calls++
			return "", errors.New("no device")
		}},
		{Name: "broken", Init: func(context.Context) (string, error) {
			calls++
			panic("driver crash")
		}},
		{Name: "cpu", Init: func(context.Context) (string, error) {
			calls++
			return "cpu-handle", nil
		}},
		{Name: "never", Init: func(context.Context) (string, error) {
			calls++
			return "unused", nil
		}},
	}

	handle, c := Resolve(context.Background(), "sentiment", strategies, logger.NewNopLogger())

	assert.Equal(t, "cpu-handle", handle)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "cpu", c.Tier)
	assert.True(t, c.Ready)
	require.Len(t, c.Attempts, 3)
	assert.Equal(t, Attempt{Strategy: "gpu", Error: "no device"}, c.Attempts[0])
	assert.Equal(t, "broken", c.Attempts[1].Strategy)
	assert.Contains(t, c.Attempts[1].Error, "driver crash")
	assert.Equal(t, Attempt{Strategy: "cpu"}, c.Attempts[2])
}

func TestResolve_AllFail(t *testing.T) {
	handle, c := Resolve(context.Background(), "ocr", []Strategy[*int]{
		{Name: "vision", Init: func(context.Context) (*int, error) { return nil, errors.New("no key") }},
	}, logger.NewNopLogger())

	assert.Nil(t, handle)
	assert.Equal(t, TierFallback, c.Tier)
	assert.False(t, c.Ready)
	assert.Len(t, c.Attempts, 1)

	_, c = Resolve[*int](context.Background(), "none", nil, logger.NewNopLogger())
	assert.Equal(t, TierFallback, c.Tier)
	assert.NotNil(t, c.Attempts)
}

func TestAccelerator_Serializes(t *testing.T) {
	acc := NewAccelerator()
	var active, peak int32

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			_ = acc.Do(context.Background(), func() error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Equal(t, int32(1), peak)
}

func TestAccelerator_CancelWhileWaiting(t *testing.T) {
	acc := NewAccelerator()
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = acc.Do(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ran := false
	err := acc.Do(ctx, func() error { ran = true; return nil })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}

func TestLimiter(t *testing.T) {
	var nilLimiter *Limiter
	assert.NoError(t, nilLimiter.Wait(context.Background()))
	assert.Nil(t, NewLimiter(0, 5))

	l := NewLimiter(1, 1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx), "second token is a second away")
}
