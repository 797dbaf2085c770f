// Package ecs is an entity-component-system runtime.
//
// Entities are recyclable indices paired with unique ids. Components live in
// one storage per registered type, addressed by entity index. Systems select
// entities with an Aspect and keep an interest set that the World updates
// from activation, reactivation and deactivation notifications, so a system
// only ever iterates the entities it cares about.
//
// Structural changes requested while systems run are queued on Commands and
// applied by the World between updates: builds, then modifies, then removes.
package ecs
