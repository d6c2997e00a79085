package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"matchtix/internal/models"
)

// LoadListings reads the catalog from a JSON file, or falls back to the
// built-in fixture set when no path is configured.
func LoadListings(path string) ([]models.EventListing, error) {
	if path == "" {
		return DefaultListings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var listings []models.EventListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return listings, nil
}

// DefaultListings is the static demo catalog: upcoming fixtures with seat
// pools and a price table per ticket type (pence).
func DefaultListings() []models.EventListing {
	nextSaturday := upcomingWeekday(time.Saturday)

	return []models.EventListing{
		{
			Name:     "Chelsea vs Arsenal",
			Date:     nextSaturday,
			Venue:    "Stamford Bridge",
			Kickoff:  "15:00",
			Category: "Premier League",
			Prices: map[string]int64{
				models.StandardTicketType: 8500,
				"VIP":                     19000,
				"Student":                 4500,
			},
			Seats: seatLabels("SB", 5, 8),
		},
		{
			Name:     "Manchester United vs Liverpool",
			Date:     nextSaturday.AddDate(0, 0, 7),
			Venue:    "Old Trafford",
			Kickoff:  "17:30",
			Category: "Premier League",
			Prices: map[string]int64{
				models.StandardTicketType: 9500,
				"VIP":                     21000,
			},
			Seats: seatLabels("OT", 4, 10),
		},
		{
			Name:     "Tottenham vs West Ham",
			Date:     nextSaturday.AddDate(0, 0, 1),
			Venue:    "Tottenham Hotspur Stadium",
			Kickoff:  "14:00",
			Category: "Premier League",
			Prices: map[string]int64{
				models.StandardTicketType: 7000,
				"Student":                 3500,
			},
			Seats: seatLabels("TH", 3, 10),
		},
		{
			Name:     "Newcastle vs Brighton",
			Date:     nextSaturday.AddDate(0, 0, 14),
			Venue:    "St James' Park",
			Kickoff:  "15:00",
			Category: "Premier League",
			Prices: map[string]int64{
				models.StandardTicketType: 6000,
			},
			Seats: seatLabels("SJ", 2, 10),
		},
	}
}

// seatLabels generates an ordered pool like SB-A1..SB-A8, SB-B1..
func seatLabels(prefix string, rows, perRow int) []string {
	seats := make([]string, 0, rows*perRow)
	for r := 0; r < rows; r++ {
		for n := 1; n <= perRow; n++ {
			seats = append(seats, fmt.Sprintf("%s-%c%d", prefix, 'A'+r, n))
		}
	}
	return seats
}

func upcomingWeekday(day time.Weekday) time.Time {
	now := time.Now()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for d.Weekday() != day || !d.After(now.AddDate(0, 0, 1)) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
