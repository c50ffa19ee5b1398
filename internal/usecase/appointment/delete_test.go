package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
)

func TestDeleteAppointmentStaffOnly(t *testing.T) {
	repo := seededRepo()
	ap := scheduledAppointment(repo, domain.StatusScheduled)
	uc := NewDeleteAppointment(repo, testDispatcher(), zap.NewNop())

	err := uc.Execute(context.Background(), clientActor(), ap.ID)
	assert.ErrorIs(t, err, httperr.ErrForbidden)

	require.NoError(t, uc.Execute(context.Background(), vetActor(), ap.ID))

	_, err = repo.GetAppointment(context.Background(), ap.ID)
	assert.ErrorIs(t, err, httperr.ErrNotFound)
}

func TestDeleteAppointmentUnknown(t *testing.T) {
	repo := seededRepo()
	uc := NewDeleteAppointment(repo, testDispatcher(), zap.NewNop())

	err := uc.Execute(context.Background(), vetActor(), 999)
	assert.ErrorIs(t, err, httperr.ErrNotFound)
}
