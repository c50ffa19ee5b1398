package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled       Status = "Programada"
	StatusConfirmed       Status = "Confirmada"
	StatusCompleted       Status = "Realizada"
	StatusCancelledClient Status = "CanceladaCliente"
	StatusCancelledStaff  Status = "CanceladaStaff"
	StatusNoShow          Status = "NoAsistio"
)

// AllStatuses lists every status the system knows about.
func AllStatuses() []Status {
	return []Status{
		StatusScheduled,
		StatusConfirmed,
		StatusCompleted,
		StatusCancelledClient,
		StatusCancelledStaff,
		StatusNoShow,
	}
}

// EditableStatuses is the subset staff may set directly on an edit.
// Client cancellation is the only path into CanceladaCliente.
func EditableStatuses() []Status {
	return []Status{
		StatusScheduled,
		StatusConfirmed,
		StatusCompleted,
		StatusCancelledStaff,
		StatusNoShow,
	}
}

func (s Status) Valid() bool {
	for _, st := range AllStatuses() {
		if s == st {
			return true
		}
	}
	return false
}

// Cancelled statuses do not occupy a slot.
func (s Status) Cancelled() bool {
	return s == StatusCancelledClient || s == StatusCancelledStaff
}

// Terminal statuses admit no further transition.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelledClient, StatusCancelledStaff, StatusNoShow:
		return true
	}
	return false
}

func (s Status) EditableByStaff() bool {
	for _, st := range EditableStatuses() {
		if s == st {
			return true
		}
	}
	return false
}

// InitialStatus is the status every new appointment starts in,
// regardless of who created it.
func InitialStatus() Status {
	return StatusScheduled
}
