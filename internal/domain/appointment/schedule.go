package appointment

import (
	"fmt"
	"time"

	"github.com/petcarelabs/vetclinic-api/internal/httperr"
)

// Operating hours: appointments start on the hour, first slot 09:00,
// last slot 17:00.
const (
	OpeningHour = 9
	ClosingHour = 17
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseDate parses a calendar date (no time component), interpreted in UTC.
func ParseDate(dateStr string) (time.Time, error) {
	d, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, httperr.Validation("date", "Formato de fecha inválido (esperado yyyy-MM-dd).")
	}
	return d, nil
}

// ParseSlot combines a calendar date and an HH:mm time-of-day string
// into the UTC instant the slot occupies.
func ParseSlot(dateStr, timeStr string) (time.Time, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(timeLayout, timeStr)
	if err != nil {
		return time.Time{}, httperr.Validation("time", "El formato de la hora no es válido (esperado HH:mm).")
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// ValidateSlot enforces the temporal rules for a slot: strictly in the
// future and an exact hour inside operating hours. Callers apply it
// whenever a slot is chosen or moved; edits that keep the slot in
// place do not re-run it.
func ValidateSlot(at, now time.Time) error {
	if !at.After(now) {
		return httperr.Validation("time", "La fecha y hora seleccionadas deben ser en el futuro.")
	}
	if at.Hour() < OpeningHour || at.Hour() > ClosingHour || at.Minute() != 0 {
		return httperr.Validation("time", fmt.Sprintf(
			"La hora debe ser exacta (ej: 9:00) y estar entre las %d:00 y las %d:00.",
			OpeningHour, ClosingHour,
		))
	}
	return nil
}

// AvailableSlots computes the free HH:mm strings for a calendar date
// given the occupied instants. Dates up to and including today yield
// nothing: same-day booking is not offered.
func AvailableSlots(date, now time.Time, occupied map[time.Time]bool) []string {
	slots := []string{}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if !day.After(today) {
		return slots
	}

	for hour := OpeningHour; hour <= ClosingHour; hour++ {
		slot := day.Add(time.Duration(hour) * time.Hour)
		if slot.After(now) && !occupied[slot] {
			slots = append(slots, slot.Format(timeLayout))
		}
	}
	return slots
}
