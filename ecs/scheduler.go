package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// SchedulerStats provides statistics about system execution in a World.
type SchedulerStats struct {
	SystemCount     int
	Cycles          int64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Passive        bool
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func newSystemStats(name string) *systemStatsInternal {
	return &systemStatsInternal{
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	}
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

func (w *World) execute(rs *registeredSystem) {
	start := time.Now()
	rs.system.Execute(w.frame)
	rs.stats.record(time.Since(start))
}

// systemName is the name a system is reported under.
func systemName(v any) string {
	if n, ok := v.(interface{ SystemName() string }); ok {
		return n.SystemName()
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func (s *EntitySystem[P]) SystemName() string {
	return systemName(s.Inner)
}

func (s *InteractSystem[P]) SystemName() string {
	return systemName(s.Inner)
}

func (s *IntervalSystem) SystemName() string {
	return systemName(s.Inner)
}

// initializeFields calls Init on every Query and Singleton field of a
// system struct, descending into wrapped behavior units such as the Inner
// field of an EntitySystem.
func (w *World) initializeFields(v any) {
	w.initializeValue(reflect.ValueOf(v), 0)
}

const maxInitDepth = 4

func (w *World) initializeValue(value reflect.Value, depth int) {
	if depth > maxInitDepth {
		return
	}
	for value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return
	}

	valueType := value.Type()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		fieldType := valueType.Field(i)

		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.Struct:
			typeName := field.Type().Name()
			if strings.HasPrefix(typeName, "Query[") || strings.HasPrefix(typeName, "Singleton[") {
				initMethod := field.Addr().MethodByName("Init")
				if !initMethod.IsValid() {
					panic("Init method not found on field: " + fieldType.Name)
				}
				initMethod.Call([]reflect.Value{reflect.ValueOf(w)})
				continue
			}
			switch field.Addr().Interface().(type) {
			case System, EntityProcess, InteractProcess:
				w.initializeValue(field, depth+1)
			}
		case reflect.Ptr, reflect.Interface:
			if field.IsNil() {
				continue
			}
			switch field.Interface().(type) {
			case System, EntityProcess, InteractProcess:
				w.initializeValue(field, depth+1)
			default:
				// wrapped units of any other shape
				if fieldType.Name == "Inner" {
					w.initializeValue(field, depth+1)
				}
			}
		}
	}
}

// Run steps the world at the given interval until ctx is cancelled. Delta
// time is the wall time between ticks. Under FailFast the first failing
// update stops the loop and its error is returned.
func (w *World) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := w.Step(dt); err != nil {
				return err
			}
		}
	}
}

// Stats returns statistics about system execution, active systems and
// passive systems in registration order.
func (w *World) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(w.registered),
		Cycles:      w.cycles,
		Systems:     make([]SystemStats, len(w.registered)),
	}

	var totalExecs int64
	for i, rs := range w.registered {
		internal := rs.stats
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			Passive:        rs.passive,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
