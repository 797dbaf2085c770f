package ecs

// IntervalSystem executes the wrapped system once every Interval updates.
// Notifications and activity are forwarded untouched, so a wrapped
// EntitySystem keeps an exact member set between runs.
type IntervalSystem struct {
	Inner    System
	Interval int

	ticker int
}

// NewIntervalSystem wraps inner. An interval below one behaves like one.
func NewIntervalSystem(inner System, interval int) *IntervalSystem {
	return &IntervalSystem{Inner: inner, Interval: max(interval, 1)}
}

func (s *IntervalSystem) Execute(frame *UpdateFrame) {
	s.ticker++
	if s.ticker < s.Interval {
		return
	}
	s.ticker = 0
	s.Inner.Execute(frame)
}

func (s *IntervalSystem) Activated(e Entity, w *World) error {
	if o, ok := s.Inner.(Observer); ok {
		return o.Activated(e, w)
	}
	return nil
}

func (s *IntervalSystem) Reactivated(e Entity, w *World) error {
	if o, ok := s.Inner.(Observer); ok {
		return o.Reactivated(e, w)
	}
	return nil
}

func (s *IntervalSystem) Deactivated(e Entity, w *World) error {
	if o, ok := s.Inner.(Observer); ok {
		return o.Deactivated(e, w)
	}
	return nil
}

func (s *IntervalSystem) IsActive() bool {
	if a, ok := s.Inner.(ActivityReporter); ok {
		return a.IsActive()
	}
	return true
}
