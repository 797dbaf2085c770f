package ecs

import "github.com/TheBitDrifter/mask"

// Aspect is an immutable predicate over an entity's component signature.
// An entity matches when it has every component in the all-set, none of
// the none-set, and at least one of the any-set. Empty sets impose nothing,
// so the zero Aspect matches every entity.
type Aspect struct {
	all  mask.Mask
	any  mask.Mask
	none mask.Mask
}

// NilAspect matches every entity.
func NilAspect() Aspect {
	return Aspect{}
}

// ForAll requires every listed component.
func ForAll(ids ...ComponentID) Aspect {
	return Aspect{}.WithAll(ids...)
}

// ForAny requires at least one of the listed components.
func ForAny(ids ...ComponentID) Aspect {
	return Aspect{}.WithAny(ids...)
}

// ForNone rejects entities carrying any of the listed components.
func ForNone(ids ...ComponentID) Aspect {
	return Aspect{}.WithNone(ids...)
}

// WithAll returns a copy of a with ids added to the all-set.
func (a Aspect) WithAll(ids ...ComponentID) Aspect {
	for _, id := range ids {
		a.all.Mark(uint32(id))
	}
	return a
}

// WithAny returns a copy of a with ids added to the any-set.
func (a Aspect) WithAny(ids ...ComponentID) Aspect {
	for _, id := range ids {
		a.any.Mark(uint32(id))
	}
	return a
}

// WithNone returns a copy of a with ids added to the none-set.
func (a Aspect) WithNone(ids ...ComponentID) Aspect {
	for _, id := range ids {
		a.none.Mark(uint32(id))
	}
	return a
}

// IsNil reports whether a places no requirement at all.
func (a Aspect) IsNil() bool {
	return a == Aspect{}
}

// Matches evaluates a against a component signature.
func (a Aspect) Matches(sig mask.Mask) bool {
	var empty mask.Mask
	if a.all != empty && !sig.ContainsAll(a.all) {
		return false
	}
	if a.none != empty && !sig.ContainsNone(a.none) {
		return false
	}
	if a.any != empty && !sig.ContainsAny(a.any) {
		return false
	}
	return true
}

// Check evaluates a against e's current components. Invalid entities never
// match.
func (a Aspect) Check(e Entity, c *Components) bool {
	if !c.IsValid(e) {
		return false
	}
	return a.Matches(c.signature(e.Index))
}
