package hotel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotel_Location(t *testing.T) {
	h := Hotel{City: "Lisbon", Country: "Portugal"}

	assert.Equal(t, "Lisbon, Portugal", h.Location())
}

func TestHotel_PriceRange(t *testing.T) {
	h := Hotel{Rooms: []Room{
		{Price: 120},
		{Price: 80},
		{Price: 240},
	}}

	pr := h.PriceRange()

	require.NotNil(t, pr)
	assert.Equal(t, 80.0, pr.Min)
	assert.Equal(t, 240.0, pr.Max)
	assert.Equal(t, "USD", pr.Currency)
}

func TestHotel_PriceRangeSingleRoom(t *testing.T) {
	h := Hotel{Rooms: []Room{{Price: 99.5}}}

	pr := h.PriceRange()

	require.NotNil(t, pr)
	assert.Equal(t, 99.5, pr.Min)
	assert.Equal(t, 99.5, pr.Max)
}

func TestHotel_PriceRangeNilWithoutRooms(t *testing.T) {
	h := Hotel{}

	assert.Nil(t, h.PriceRange())
}
