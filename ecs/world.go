package ecs

import (
	"errors"
	"iter"
	"log/slog"
	"reflect"

	"github.com/rotisserie/eris"
)

// lifecycle names the notification being delivered to observers.
type lifecycle int

const (
	activation lifecycle = iota
	reactivation
	deactivation
)

func (l lifecycle) String() string {
	switch l {
	case activation:
		return "activate"
	case reactivation:
		return "reactivate"
	case deactivation:
		return "deactivate"
	default:
		return "unknown"
	}
}

// maxSettleRounds bounds how many times shape changes made by observers are
// chased within a single flush.
const maxSettleRounds = 8

// World owns entity identity, component storage and the registered systems,
// and drives the update cycle. It is not safe for concurrent use.
type World struct {
	registry   *ComponentRegistry
	entities   *entityManager
	components *Components
	commands   *Commands
	frame      *UpdateFrame
	services   map[reflect.Type]any

	registered []*registeredSystem
	systems    []*registeredSystem
	passive    map[string]*registeredSystem
	named      map[string]Observer
	observers  []Observer

	logger *slog.Logger
	policy ErrorPolicy

	locked bool
	closed bool
	cycles int64
}

type registeredSystem struct {
	name    string
	system  System
	passive bool
	stats   *systemStatsInternal
}

// NewWorld creates a World for the component types in registry. The
// registry accepts no further types afterwards.
func NewWorld(registry *ComponentRegistry, opts ...Option) *World {
	cfg := defaultWorldConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	registry.sealed = true
	entities := newEntityManager(cfg.capacity)
	w := &World{
		registry:   registry,
		entities:   entities,
		components: newComponents(registry, entities),
		commands:   newCommands(entities),
		services:   make(map[reflect.Type]any),
		passive:    make(map[string]*registeredSystem),
		named:      make(map[string]Observer),
		logger:     cfg.logger,
		policy:     cfg.policy,
	}
	w.frame = newUpdateFrame(w)
	return w
}

func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Components gives direct access to component data. Shape changes made
// through it are reported to observers at the end of the current update,
// or by Refresh.
func (w *World) Components() *Components {
	return w.components
}

// Commands returns the world's mutation queue.
func (w *World) Commands() *Commands {
	return w.commands
}

// RegisterSystem adds an active system, executed every update in
// registration order. Query and Singleton fields of the system are
// initialized, and if it is an Observer it is told about every entity
// already in the world.
func (w *World) RegisterSystem(sys System) error {
	if err := w.checkRegistration(); err != nil {
		return err
	}
	rs := w.register(systemName(sys), sys, false)
	w.systems = append(w.systems, rs)
	w.logger.Debug("registered system", "system", rs.name)
	return w.attach(sys)
}

// RegisterPassive adds a system that is only executed on demand through
// UpdatePassive. It still receives notifications.
func (w *World) RegisterPassive(name string, sys System) error {
	if err := w.checkRegistration(); err != nil {
		return err
	}
	if _, ok := w.passive[name]; ok {
		return &DuplicateNameError{Name: name}
	}
	rs := w.register(name, sys, true)
	w.passive[name] = rs
	w.logger.Debug("registered passive system", "system", name)
	return w.attach(sys)
}

// RegisterObserver adds a named observer that receives every lifecycle
// notification without filtering.
func (w *World) RegisterObserver(name string, obs Observer) error {
	if err := w.checkRegistration(); err != nil {
		return err
	}
	if _, ok := w.named[name]; ok {
		return &DuplicateNameError{Name: name}
	}
	w.named[name] = obs
	w.initializeFields(obs)
	w.logger.Debug("registered observer", "observer", name)
	return w.attach(obs)
}

func (w *World) checkRegistration() error {
	if w.locked {
		return &LockedWorldError{}
	}
	if w.closed {
		return &RegistrationClosedError{}
	}
	return nil
}

func (w *World) register(name string, sys System, passive bool) *registeredSystem {
	w.initializeFields(sys)
	rs := &registeredSystem{
		name:    name,
		system:  sys,
		passive: passive,
		stats:   newSystemStats(name),
	}
	w.registered = append(w.registered, rs)
	return rs
}

// attach subscribes v to notifications if it is an Observer and activates
// it for the entities that already exist.
func (w *World) attach(v any) error {
	obs, ok := v.(Observer)
	if !ok {
		return nil
	}
	w.observers = append(w.observers, obs)

	locked := w.locked
	w.locked = true
	defer func() { w.locked = locked }()

	var errs []error
	for e := range w.entities.all() {
		if !w.entities.isActivated(e) {
			continue
		}
		if err := obs.Activated(e, w); err != nil {
			errs = append(errs, eris.Wrapf(err, "%v %v", activation, e))
		}
	}
	return w.report(errs)
}

// Observer returns the observer registered under name.
func (w *World) Observer(name string) (Observer, error) {
	obs, ok := w.named[name]
	if !ok {
		return nil, &UnregisteredSystemError{Name: name}
	}
	return obs, nil
}

// Passive returns the passive system registered under name.
func (w *World) Passive(name string) (System, error) {
	rs, ok := w.passive[name]
	if !ok {
		return nil, &UnregisteredSystemError{Name: name}
	}
	return rs.system, nil
}

// CreateEntity queues a build. The entity is valid at once and becomes
// visible to systems during the next update.
func (w *World) CreateEntity(components ...any) Entity {
	return w.commands.Build(components...)
}

// ModifyEntity queues component changes for e.
func (w *World) ModifyEntity(e Entity, changes ...Change) {
	w.commands.Modify(e, changes...)
}

// RemoveEntity queues the removal of e.
func (w *World) RemoveEntity(e Entity) {
	w.commands.Remove(e)
}

// Update runs one cycle with a zero delta time.
func (w *World) Update() error {
	return w.Step(0)
}

// Step runs one cycle: every active system executes against the current
// state, then queued builds, modifies and removes are applied in that
// order, then entities whose shape changed through direct access are
// reactivated. The first Step closes registration.
func (w *World) Step(dt float64) error {
	if w.locked {
		return &LockedWorldError{}
	}
	w.closed = true
	w.locked = true
	defer func() { w.locked = false }()

	w.frame.DeltaTime = dt
	for _, rs := range w.systems {
		if a, ok := rs.system.(ActivityReporter); ok && !a.IsActive() {
			continue
		}
		w.execute(rs)
	}

	var errs []error
	batch := w.commands.take()
	for _, cmd := range batch.builds {
		errs = append(errs, w.applyBuild(cmd)...)
	}
	for _, cmd := range batch.modifies {
		errs = append(errs, w.applyModify(cmd)...)
	}
	for _, e := range batch.removes {
		errs = append(errs, w.applyRemove(e)...)
	}
	for _, fn := range batch.defers {
		fn()
	}
	errs = append(errs, w.settle()...)

	w.cycles++
	return w.report(errs)
}

// UpdatePassive executes the passive system registered under name once.
// Requests it queues are applied by the next update.
func (w *World) UpdatePassive(name string) error {
	rs, ok := w.passive[name]
	if !ok {
		return &UnregisteredSystemError{Name: name}
	}
	if w.locked {
		return &LockedWorldError{}
	}

	func() {
		w.locked = true
		defer func() { w.locked = false }()
		w.frame.DeltaTime = 0
		w.execute(rs)
	}()
	return w.report(w.settle())
}

// Spawn builds an entity right away. It fails while an update is running.
func (w *World) Spawn(components ...any) (Entity, error) {
	if w.locked {
		return NilEntity, &LockedWorldError{}
	}
	e := w.entities.create()
	errs := w.applyBuild(buildCommand{entity: e, components: components})
	errs = append(errs, w.settle()...)
	return e, w.report(errs)
}

// Apply changes e's components right away and reactivates it.
func (w *World) Apply(e Entity, changes ...Change) error {
	if w.locked {
		return &LockedWorldError{}
	}
	errs := w.applyModify(modifyCommand{entity: e, changes: changes})
	errs = append(errs, w.settle()...)
	return w.report(errs)
}

// Despawn removes e right away.
func (w *World) Despawn(e Entity) error {
	if w.locked {
		return &LockedWorldError{}
	}
	errs := w.applyRemove(e)
	errs = append(errs, w.settle()...)
	return w.report(errs)
}

// Refresh reactivates entities whose shape changed through Components
// since the last cycle.
func (w *World) Refresh() error {
	if w.locked {
		return &LockedWorldError{}
	}
	return w.report(w.settle())
}

// Clear deactivates and removes every entity and drops queued requests.
// Systems, observers and singletons are kept.
func (w *World) Clear() error {
	if w.locked {
		return &LockedWorldError{}
	}
	var errs []error
	for e := range w.entities.all() {
		if w.entities.isActivated(e) {
			errs = append(errs, w.notify(deactivation, e)...)
		}
	}
	w.components.clear()
	w.entities.clear()
	w.commands.reset()
	w.logger.Debug("world cleared")
	return w.report(errs)
}

func (w *World) IsValid(e Entity) bool {
	return w.entities.isValid(e)
}

// EntityCount returns the number of live entities, including entities
// whose build is still queued.
func (w *World) EntityCount() int {
	return w.entities.count()
}

// Entities yields every live entity in index order, including entities
// whose build is still queued.
func (w *World) Entities() iter.Seq[Entity] {
	return w.entities.all()
}

// EntitiesMatching yields the built entities a currently matches. Entities
// whose build is still queued are skipped, like they are by systems.
func (w *World) EntitiesMatching(a Aspect) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for e := range w.entities.all() {
			if !w.entities.isActivated(e) || !a.Check(e, w.components) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Cycles returns how many updates have completed.
func (w *World) Cycles() int64 {
	return w.cycles
}

func (w *World) applyBuild(cmd buildCommand) []error {
	e := cmd.entity
	if !w.entities.isValid(e) {
		w.logger.Debug("skipping build of removed entity", "entity", e)
		return nil
	}

	var errs []error
	for _, v := range cmd.components {
		if err := w.components.SetAny(e, v); err != nil {
			errs = append(errs, eris.Wrapf(err, "build %v", e))
		}
	}
	w.components.settle(e)
	w.entities.setActivated(e)
	return append(errs, w.notify(activation, e)...)
}

func (w *World) applyModify(cmd modifyCommand) []error {
	e := cmd.entity
	if !w.entities.isValid(e) {
		return []error{eris.Wrap(&InvalidEntityError{Entity: e}, "modify")}
	}

	var errs []error
	for _, ch := range cmd.changes {
		var err error
		if ch.IsUnset() {
			_, err = w.components.RemoveByType(e, ch.unset)
		} else {
			err = w.components.SetAny(e, ch.value)
		}
		if err != nil {
			errs = append(errs, eris.Wrapf(err, "modify %v", e))
		}
	}
	w.components.settle(e)

	// not built yet; its build reports the final shape
	if !w.entities.isActivated(e) {
		return errs
	}
	return append(errs, w.notify(reactivation, e)...)
}

func (w *World) applyRemove(e Entity) []error {
	w.commands.applied(e)
	if !w.entities.isValid(e) {
		return []error{eris.Wrap(&InvalidEntityError{Entity: e}, "remove")}
	}

	var errs []error
	if w.entities.isActivated(e) {
		errs = w.notify(deactivation, e)
	}
	w.components.purge(e)
	w.entities.remove(e)
	return errs
}

// settle reactivates entities with unreported shape changes until none
// are left.
func (w *World) settle() []error {
	var errs []error
	for round := 0; w.components.hasDirty(); round++ {
		if round == maxSettleRounds {
			w.logger.Warn("shape changes still pending after reactivation", "rounds", round)
			break
		}
		for _, e := range w.components.takeDirty() {
			if !w.entities.isActivated(e) {
				continue
			}
			errs = append(errs, w.notify(reactivation, e)...)
		}
	}
	return errs
}

// notify delivers one lifecycle event to every observer in registration
// order. The world stays locked while observers run.
func (w *World) notify(l lifecycle, e Entity) []error {
	locked := w.locked
	w.locked = true
	defer func() { w.locked = locked }()

	var errs []error
	for _, obs := range w.observers {
		var err error
		switch l {
		case activation:
			err = obs.Activated(e, w)
		case reactivation:
			err = obs.Reactivated(e, w)
		case deactivation:
			err = obs.Deactivated(e, w)
		}
		if err != nil {
			errs = append(errs, eris.Wrapf(err, "%v %v", l, e))
		}
	}
	return errs
}

func (w *World) report(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if w.policy == LogAndContinue {
		for _, err := range errs {
			w.logger.Error("ecs update error", "error", err)
		}
		return nil
	}
	return errors.Join(errs...)
}
