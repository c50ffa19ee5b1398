package appointment

import (
	"context"
	"time"

	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

type ListAppointmentsInput struct {
	Search  string
	Date    *time.Time
	Status  string
	PetID   uint
	OwnerID uint
	VetID   uint
}

// ListAppointments is a pure read: overdue appointments are normalized
// by the sweep worker, never as a side effect of listing.
type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	actor domain.Actor,
	in ListAppointmentsInput,
) ([]models.Appointment, error) {

	var filter domain.ListFilter

	if actor.Staff() {
		filter = domain.ListFilter{
			Search:  in.Search,
			Date:    in.Date,
			Status:  domain.Status(in.Status),
			PetID:   in.PetID,
			OwnerID: in.OwnerID,
			VetID:   in.VetID,
		}
	} else {
		// Clients only ever see their own pets' appointments; the
		// staff filters are not honored for them.
		filter = domain.ListFilter{OwnerScope: actor.UserID}
	}

	return uc.repo.ListAppointments(ctx, filter)
}

// Get returns one appointment, refusing clients access to other
// owners' records.
func (uc *ListAppointments) Get(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Staff() && ap.Pet.OwnerID != actor.UserID {
		return nil, httperr.ErrForbidden
	}

	return ap, nil
}
