package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcarelabs/vetclinic-api/internal/httperr"
)

var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestParseSlot(t *testing.T) {
	got, err := ParseSlot("2026-03-12", "10:00")
	require.NoError(t, err)
	assert.Equal(t, at(12, 10, 0), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseSlotBadInputs(t *testing.T) {
	_, err := ParseSlot("12/03/2026", "10:00")
	ve, ok := httperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "date")

	_, err = ParseSlot("2026-03-12", "10am")
	ve, ok = httperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "time")
}

func TestValidateSlot(t *testing.T) {
	cases := []struct {
		name string
		slot time.Time
		ok   bool
	}{
		{"future opening hour", at(12, 9, 0), true},
		{"future closing hour", at(12, 17, 0), true},
		{"later today", at(10, 15, 0), true},
		{"exactly now", noon, false},
		{"yesterday", at(9, 10, 0), false},
		{"before opening", at(12, 8, 0), false},
		{"after closing", at(12, 18, 0), false},
		{"half hour", at(12, 10, 30), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSlot(tc.slot, noon)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAvailableSlotsTomorrow(t *testing.T) {
	date := at(11, 0, 0)

	slots := AvailableSlots(date, noon, nil)
	assert.Len(t, slots, ClosingHour-OpeningHour+1)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "17:00", slots[len(slots)-1])
}

func TestAvailableSlotsTodayAndPastAreEmpty(t *testing.T) {
	assert.Empty(t, AvailableSlots(at(10, 0, 0), noon, nil))
	assert.Empty(t, AvailableSlots(at(1, 0, 0), noon, nil))
}

func TestAvailableSlotsSkipOccupied(t *testing.T) {
	date := at(12, 0, 0)
	occupied := map[time.Time]bool{
		at(12, 10, 0): true,
		at(12, 15, 0): true,
	}

	slots := AvailableSlots(date, noon, occupied)
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "15:00")
	assert.Contains(t, slots, "09:00")
	assert.Len(t, slots, ClosingHour-OpeningHour+1-2)
}
