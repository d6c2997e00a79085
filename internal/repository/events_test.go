package repository

import (
	"sync"
	"testing"
	"time"

	apperrors "matchtix/internal/errors"
	"matchtix/internal/models"

	"github.com/stretchr/testify/assert"
)

func testListings() []models.EventListing {
	return []models.EventListing{
		{
			Name:     "Chelsea vs Arsenal",
			Date:     time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
			Venue:    "Stamford Bridge",
			Kickoff:  "15:00",
			Category: "Premier League",
			Prices:   map[string]int64{models.StandardTicketType: 8500, "VIP": 19000},
			Seats:    []string{"A1", "A2", "A3", "A4", "A5"},
		},
		{
			Name:     "Tottenham vs West Ham",
			Date:     time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
			Venue:    "Tottenham Hotspur Stadium",
			Kickoff:  "14:00",
			Category: "Premier League",
			Prices:   map[string]int64{models.StandardTicketType: 7000},
			Seats:    []string{"B1", "B2"},
		},
	}
}

func TestNewEventCatalogValidation(t *testing.T) {
	_, err := NewEventCatalog([]models.EventListing{
		{Name: "No Standard Price", Prices: map[string]int64{"VIP": 100}},
	})
	assert.Error(t, err)

	_, err = NewEventCatalog([]models.EventListing{
		{Name: "Drifted", Prices: map[string]int64{models.StandardTicketType: 100}, Seats: []string{"A1"}, Available: 3},
	})
	assert.Error(t, err)

	_, err = NewEventCatalog(append(testListings(), testListings()[0]))
	assert.Error(t, err)
}

func TestCatalogGet(t *testing.T) {
	catalog, err := NewEventCatalog(testListings())
	assert.NoError(t, err)

	listing, err := catalog.Get("Chelsea vs Arsenal")
	assert.NoError(t, err)
	assert.Equal(t, "Stamford Bridge", listing.Venue)
	assert.Equal(t, 5, listing.Available)

	// Lookup is case-insensitive
	_, err = catalog.Get("chelsea VS arsenal")
	assert.NoError(t, err)

	_, err = catalog.Get("Everton vs Fulham")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestCatalogGetReturnsCopy(t *testing.T) {
	catalog, _ := NewEventCatalog(testListings())

	listing, _ := catalog.Get("Chelsea vs Arsenal")
	listing.Seats[0] = "mutated"
	listing.Prices[models.StandardTicketType] = 1

	fresh, _ := catalog.Get("Chelsea vs Arsenal")
	assert.Equal(t, "A1", fresh.Seats[0])
	assert.Equal(t, int64(8500), fresh.Prices[models.StandardTicketType])
}

func TestListAvailable(t *testing.T) {
	catalog, _ := NewEventCatalog(testListings())

	available := catalog.ListAvailable()
	assert.Len(t, available, 2)
	assert.Equal(t, "Chelsea vs Arsenal", available[0].Name)

	// Drain the second listing and it drops off
	_, err := catalog.ReserveSeats("Tottenham vs West Ham", 2)
	assert.NoError(t, err)

	available = catalog.ListAvailable()
	assert.Len(t, available, 1)
}

func TestAlternativeDates(t *testing.T) {
	catalog, _ := NewEventCatalog(testListings())

	dates := catalog.AlternativeDates("Chelsea vs Arsenal")
	assert.Len(t, dates, 3)
	assert.Equal(t, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), dates[0])

	assert.Empty(t, catalog.AlternativeDates("Everton vs Fulham"))
}

func TestReserveSeats(t *testing.T) {
	catalog, _ := NewEventCatalog(testListings())

	seats, err := catalog.ReserveSeats("Chelsea vs Arsenal", 3)
	assert.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2", "A3"}, seats)
	assert.Equal(t, 2, catalog.Availability("Chelsea vs Arsenal"))
}

func TestReserveSeatsInsufficient(t *testing.T) {
	catalog, _ := NewEventCatalog(testListings())

	_, err := catalog.ReserveSeats("Chelsea vs Arsenal", 6)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientInventory)

	// A failed reservation takes nothing
	assert.Equal(t, 5, catalog.Availability("Chelsea vs Arsenal"))
}

func TestReserveSeatsUnknownEvent(t *testing.T) {
	catalog, _ := NewEventCatalog(testListings())

	_, err := catalog.ReserveSeats("Everton vs Fulham", 1)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

// TestReserveSeatsNoOversell hammers one listing from many goroutines and
// checks that successful reservations never exceed the pool.
func TestReserveSeatsNoOversell(t *testing.T) {
	const poolSize = 40
	seats := make([]string, poolSize)
	for i := range seats {
		seats[i] = "S" + string(rune('A'+i%26)) + string(rune('0'+i/26))
	}

	catalog, err := NewEventCatalog([]models.EventListing{{
		Name:   "Big Match",
		Date:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Prices: map[string]int64{models.StandardTicketType: 1000},
		Seats:  seats,
	}})
	assert.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			quantity := n%3 + 1
			reserved, err := catalog.ReserveSeats("Big Match", quantity)
			if err != nil {
				return
			}
			mu.Lock()
			granted += len(reserved)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, granted, poolSize)
	remaining := catalog.Availability("Big Match")
	assert.GreaterOrEqual(t, remaining, 0)
	assert.Equal(t, poolSize, granted+remaining)
}
