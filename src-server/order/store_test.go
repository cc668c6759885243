package order

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_FullFlow(t *testing.T) {
	s := NewStore(0)

	o, err := s.Begin("42", "alice")
	require.NoError(t, err)
	assert.Equal(t, AwaitingStep1, o.Step)

	_, err = s.Update("42", AwaitingStep1, func(o *Order) Step {
		o.ProductName = "  Sneaker X "
		o.OrderNumber = "A-1"
		return AwaitingStep2
	})
	require.NoError(t, err)

	_, err = s.Update("42", AwaitingStep2, func(o *Order) Step {
		o.Size = "10"
		return AwaitingStep3
	})
	require.NoError(t, err)

	got, err := s.Update("42", AwaitingStep3, func(o *Order) Step {
		o.ShippingAddress = "123 Main St"
		o.Email = "user@example.com"
		return Completed
	})
	require.NoError(t, err)

	assert.Equal(t, Completed, got.Step)
	assert.Equal(t, "  Sneaker X ", got.ProductName)
	assert.Equal(t, "A-1", got.OrderNumber)
	assert.Equal(t, "10", got.Size)
	assert.Equal(t, "123 Main St", got.ShippingAddress)
	assert.Equal(t, "user@example.com", got.Email)

	assert.True(t, s.Delete("42"))
	_, ok := s.Get("42")
	assert.False(t, ok)
}

func TestStore_UpdateWrongStep(t *testing.T) {
	s := NewStore(0)
	_, err := s.Begin("42", "alice")
	require.NoError(t, err)

	called := false
	_, err = s.Update("42", AwaitingStep2, func(o *Order) Step {
		called = true
		return AwaitingStep3
	})
	assert.ErrorIs(t, err, ErrWrongStep)
	assert.False(t, called)

	o, ok := s.Get("42")
	require.True(t, ok)
	assert.Equal(t, AwaitingStep1, o.Step)
}

func TestStore_UpdateMissing(t *testing.T) {
	s := NewStore(0)
	_, err := s.Update("nobody", AwaitingStep1, func(o *Order) Step { return AwaitingStep2 })
	assert.ErrorIs(t, err, ErrNoPendingOrder)
}

func TestStore_BeginReplaces(t *testing.T) {
	s := NewStore(0)
	first, err := s.Begin("42", "alice")
	require.NoError(t, err)
	_, err = s.Update("42", AwaitingStep1, func(o *Order) Step { return AwaitingStep2 })
	require.NoError(t, err)

	second, err := s.Begin("42", "alice")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, AwaitingStep1, second.Step)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Capacity(t *testing.T) {
	s := NewStore(2)
	_, err := s.Begin("1", "a")
	require.NoError(t, err)
	_, err = s.Begin("2", "b")
	require.NoError(t, err)

	_, err = s.Begin("3", "c")
	assert.ErrorIs(t, err, ErrStoreFull)

	// restarting an existing order is not a new slot
	_, err = s.Begin("2", "b")
	assert.NoError(t, err)
}

func TestStore_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(0)
	s.now = func() time.Time { return now }

	_, err := s.Begin("old", "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = s.Begin("fresh", "b")
	require.NoError(t, err)

	evicted := s.Sweep(time.Hour)
	require.Len(t, evicted, 1)
	assert.Equal(t, "old", evicted[0].UserID)

	_, ok := s.Get("fresh")
	assert.True(t, ok)
	_, ok = s.Get("old")
	assert.False(t, ok)
}

func TestStore_ConcurrentCompleteOnlyOnce(t *testing.T) {
	s := NewStore(0)
	_, err := s.Begin("42", "alice")
	require.NoError(t, err)
	_, err = s.Update("42", AwaitingStep1, func(o *Order) Step { return AwaitingStep3 })
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update("42", AwaitingStep3, func(o *Order) Step { return Completed })
			switch {
			case err == nil:
				wins.Add(1)
			case !errors.Is(err, ErrWrongStep):
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins.Load())
}

func TestOrder_Fields(t *testing.T) {
	o := Order{
		Username:    "alice",
		ProductName: "Sneaker X",
		Size:        "10",
		CreatedAt:   time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
	}
	f := o.Fields(time.UTC)
	assert.Equal(t, "Sneaker X", f[KeyProductName])
	assert.Equal(t, "10", f[KeySize])
	assert.Equal(t, "alice", f[KeyCustomerName])
	assert.Equal(t, "05/03/2024 14:30", f[KeyOrderDate])
}

func TestStore_FinishKeepsReplacement(t *testing.T) {
	s := NewStore(0)
	first, err := s.Begin("42", "alice")
	require.NoError(t, err)
	second, err := s.Begin("42", "alice")
	require.NoError(t, err)

	assert.False(t, s.Finish("42", first.ID))
	got, ok := s.Get("42")
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)

	assert.True(t, s.Finish("42", second.ID))
	assert.Equal(t, 0, s.Len())
}
