package repository

import (
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "matchtix/internal/errors"
	"matchtix/internal/models"
)

// UnassignedSeat pads a reservation when the pool runs dry mid-dequeue.
// Under the catalog invariant (available == len(pool)) this never happens.
const UnassignedSeat = "Unassigned"

// EventCatalog is the in-memory registry of listings and the unit of
// contention for booking. One mutex guards every listing; the reservation
// path is the only writer after startup.
type EventCatalog struct {
	mu       sync.RWMutex
	listings map[string]*models.EventListing
	order    []string
}

func NewEventCatalog(listings []models.EventListing) (*EventCatalog, error) {
	c := &EventCatalog{
		listings: make(map[string]*models.EventListing, len(listings)),
	}

	for i := range listings {
		l := listings[i]
		if l.Name == "" {
			return nil, fmt.Errorf("listing %d has no name", i)
		}
		if _, ok := l.Prices[models.StandardTicketType]; !ok {
			return nil, fmt.Errorf("listing %q has no %s price", l.Name, models.StandardTicketType)
		}
		if l.Available == 0 {
			l.Available = len(l.Seats)
		}
		if l.Available != len(l.Seats) {
			return nil, fmt.Errorf("listing %q: available %d != pool size %d", l.Name, l.Available, len(l.Seats))
		}

		key := normalizeName(l.Name)
		if _, dup := c.listings[key]; dup {
			return nil, fmt.Errorf("duplicate listing %q", l.Name)
		}
		c.listings[key] = &l
		c.order = append(c.order, key)
	}

	return c, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Get returns a copy of the listing so callers can read descriptive fields
// without racing the reservation path. Returns ErrEventNotFound for
// unknown names.
func (c *EventCatalog) Get(name string) (*models.EventListing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	l, ok := c.listings[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, apperrors.ErrEventNotFound)
	}

	cp := *l
	cp.Seats = append([]string(nil), l.Seats...)
	cp.Prices = make(map[string]int64, len(l.Prices))
	for k, v := range l.Prices {
		cp.Prices[k] = v
	}
	return &cp, nil
}

// ListAvailable returns listing names with seats remaining, in seed order.
func (c *EventCatalog) ListAvailable() []*models.EventListing {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*models.EventListing
	for _, key := range c.order {
		l := c.listings[key]
		if l.Available > 0 {
			cp := *l
			cp.Seats = nil
			out = append(out, &cp)
		}
	}
	return out
}

// AlternativeDates offers substitute dates for a listing. The catalog is
// static, so these are the following three same-weekday slots; no
// freshness guarantee is implied.
func (c *EventCatalog) AlternativeDates(name string) []time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	l, ok := c.listings[normalizeName(name)]
	if !ok {
		return nil
	}

	dates := make([]time.Time, 0, 3)
	for week := 1; week <= 3; week++ {
		dates = append(dates, l.Date.AddDate(0, 0, 7*week))
	}
	return dates
}

// ReserveSeats is the single atomicity-critical region of the booking
// engine: check, dequeue and decrement happen under one lock so concurrent
// reservations can never oversell a listing or drive Available negative.
func (c *EventCatalog) ReserveSeats(name string, quantity int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.listings[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, apperrors.ErrEventNotFound)
	}

	if quantity > l.Available {
		return nil, fmt.Errorf("%w: %d requested, %d remaining", apperrors.ErrInsufficientInventory, quantity, l.Available)
	}

	seats := make([]string, 0, quantity)
	for i := 0; i < quantity; i++ {
		if len(l.Seats) == 0 {
			seats = append(seats, UnassignedSeat)
			continue
		}
		seats = append(seats, l.Seats[0])
		l.Seats = l.Seats[1:]
	}
	l.Available -= quantity

	return seats, nil
}

// Names returns every listing name in seed order, available or not. The
// extractor matches free text against these.
func (c *EventCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.order))
	for _, key := range c.order {
		names = append(names, c.listings[key].Name)
	}
	return names
}

// Availability reports remaining seats; 0 for unknown listings.
func (c *EventCatalog) Availability(name string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if l, ok := c.listings[normalizeName(name)]; ok {
		return l.Available
	}
	return 0
}
