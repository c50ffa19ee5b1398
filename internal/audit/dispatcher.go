package audit

import "go.uber.org/zap"

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher writes audit events off the request path. A full queue
// drops events; auditing never fails an API call.
type Dispatcher struct {
	recorder Recorder
	logger   *zap.Logger
	queue    chan Event
}

func NewDispatcher(recorder Recorder, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		logger:   logger,
		queue:    make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.recorder.Record(ev); err != nil {
			d.logger.Error("audit record failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event",
			zap.String("action", ev.Action),
		)
	}
}
