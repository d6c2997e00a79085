package repository

import (
	"sync"
	"testing"

	"matchtix/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateReturnsSameState(t *testing.T) {
	store := NewConversationStore()

	first := store.GetOrCreate("whatsapp:+447700900001")
	second := store.GetOrCreate("whatsapp:+447700900001")
	assert.Same(t, first, second)

	other := store.GetOrCreate("whatsapp:+447700900002")
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, store.Len())
}

// Racing first turns for one sender must all observe a single state object.
func TestGetOrCreateConcurrentFirstTurns(t *testing.T) {
	store := NewConversationStore()

	const goroutines = 50
	results := make([]*models.ConversationState, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = store.GetOrCreate("whatsapp:+447700900099")
		}(i)
	}
	wg.Wait()

	for _, state := range results {
		assert.Same(t, results[0], state)
	}
	assert.Equal(t, 1, store.Len())
}

func TestResetClearsIntentAndFlags(t *testing.T) {
	store := NewConversationStore()

	state := store.GetOrCreate("sender")
	state.Intent = &models.BookingIntent{EventName: "Chelsea vs Arsenal"}
	state.SetAwaiting(models.AwaitConfirmation)

	store.Reset("sender")

	assert.Nil(t, state.Intent)
	assert.False(t, state.AwaitingQuantity)
	assert.False(t, state.AwaitingEmail)
	assert.False(t, state.AwaitingConfirmation)

	// The entry survives the reset
	assert.Equal(t, 1, store.Len())
	assert.Same(t, state, store.GetOrCreate("sender"))
}

func TestResetIsIdempotent(t *testing.T) {
	store := NewConversationStore()

	state := store.GetOrCreate("sender")
	state.Intent = &models.BookingIntent{EventName: "Chelsea vs Arsenal"}
	state.SetAwaiting(models.AwaitEmail)

	store.Reset("sender")
	store.Reset("sender")

	assert.Nil(t, state.Intent)
	assert.False(t, state.AwaitingEmail)

	// Resetting a sender we have never seen is a no-op
	store.Reset("stranger")
	assert.Equal(t, 1, store.Len())
}

func TestSetAwaitingIsExclusive(t *testing.T) {
	state := models.NewConversationState("sender")

	state.SetAwaiting(models.AwaitQuantity)
	state.SetAwaiting(models.AwaitEmail)
	assert.False(t, state.AwaitingQuantity)
	assert.True(t, state.AwaitingEmail)
	assert.False(t, state.AwaitingConfirmation)

	state.SetAwaiting(models.AwaitConfirmation)
	assert.False(t, state.AwaitingEmail)
	assert.True(t, state.AwaitingConfirmation)

	state.SetAwaiting(models.AwaitingNone)
	assert.False(t, state.AwaitingQuantity)
	assert.False(t, state.AwaitingEmail)
	assert.False(t, state.AwaitingConfirmation)
}
