package appointment

import (
	"context"
	"time"

	"github.com/petcarelabs/vetclinic-api/internal/clock"
	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
)

type AvailableSlotsInput struct {
	Date           string
	VeterinarianID uint

	// ExcludeID ignores one appointment when rescheduling.
	ExcludeID uint
}

type GetAvailableSlots struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailableSlots(repo domain.Repository) *GetAvailableSlots {
	return &GetAvailableSlots{
		repo: repo,
		now:  clock.Now,
	}
}

func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	in AvailableSlotsInput,
) ([]string, error) {

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	taken, err := uc.repo.OccupiedSlots(ctx, in.VeterinarianID, dayStart, dayEnd, in.ExcludeID)
	if err != nil {
		return nil, err
	}

	occupied := make(map[time.Time]bool, len(taken))
	for _, t := range taken {
		occupied[t.UTC()] = true
	}

	return domain.AvailableSlots(date, uc.now(), occupied), nil
}
