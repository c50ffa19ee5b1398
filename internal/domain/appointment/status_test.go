package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, st := range AllStatuses() {
		assert.True(t, st.Valid(), st)
	}
	assert.False(t, Status("Pendiente").Valid())
	assert.False(t, Status("").Valid())
}

func TestEditableByStaffExcludesClientCancellation(t *testing.T) {
	assert.False(t, StatusCancelledClient.EditableByStaff())

	for _, st := range []Status{
		StatusScheduled,
		StatusConfirmed,
		StatusCompleted,
		StatusCancelledStaff,
		StatusNoShow,
	} {
		assert.True(t, st.EditableByStaff(), st)
	}
}

func TestCancelledStatuses(t *testing.T) {
	assert.True(t, StatusCancelledClient.Cancelled())
	assert.True(t, StatusCancelledStaff.Cancelled())
	assert.False(t, StatusScheduled.Cancelled())
	assert.False(t, StatusCompleted.Cancelled())
	assert.False(t, StatusNoShow.Cancelled())
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, StatusScheduled.Terminal())
	assert.False(t, StatusConfirmed.Terminal())

	for _, st := range []Status{
		StatusCompleted,
		StatusCancelledClient,
		StatusCancelledStaff,
		StatusNoShow,
	} {
		assert.True(t, st.Terminal(), st)
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusScheduled, InitialStatus())
}
