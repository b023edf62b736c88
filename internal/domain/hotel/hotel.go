package hotel

import (
	"time"
)

// Hotel is the read model produced by the search and detail paths. Rooms is
// only populated on detail loads; listings carry the aggregate count alone.
type Hotel struct {
	ID                  int64
	Name                string
	Address             string
	City                string
	Country             string
	Stars               int
	Description         string
	AvailableRoomsCount int
	Rooms               []Room
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Room struct {
	ID          int64
	HotelID     int64
	Name        string
	Description string
	Price       float64
	Type        string
	IsAvailable bool
	Capacity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location composes the presentation string "city, country".
func (h *Hotel) Location() string {
	return h.City + ", " + h.Country
}

type PriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// PriceRange is derived from loaded rooms; nil when no rooms are loaded so
// callers can distinguish "unknown" from "free".
func (h *Hotel) PriceRange() *PriceRange {
	if len(h.Rooms) == 0 {
		return nil
	}

	pr := &PriceRange{Min: h.Rooms[0].Price, Max: h.Rooms[0].Price, Currency: "USD"}
	for _, room := range h.Rooms[1:] {
		if room.Price < pr.Min {
			pr.Min = room.Price
		}
		if room.Price > pr.Max {
			pr.Max = room.Price
		}
	}
	return pr
}
