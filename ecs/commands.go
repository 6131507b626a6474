package ecs

import "sync"

// Commands buffers structural changes issued while systems run. It is safe for
// concurrent use, so workers inside Query.ParEach may queue deletes and spawns.
// The Scheduler applies the buffer once per tick, after every system has run.
type Commands struct {
	mu      sync.Mutex
	spawns  [][]any
	deletes []EntityId
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.mu.Lock()
	c.spawns = append(c.spawns, components)
	c.mu.Unlock()
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.mu.Lock()
	c.deletes = append(c.deletes, entity)
	c.mu.Unlock()
}

// Defer queues fn to run after all spawns and deletes have been applied.
func (c *Commands) Defer(fn func()) {
	c.mu.Lock()
	c.defers = append(c.defers, fn)
	c.mu.Unlock()
}

// Pending returns the number of queued spawns and deletes.
func (c *Commands) Pending() (spawns, deletes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.spawns), len(c.deletes)
}

// FlushResult reports what a Flush applied.
type FlushResult struct {
	Spawned int
	Deleted int
}

// Flush applies the buffered commands to storage and resets the buffer.
// Deletes run first so their slots can be reused by the spawns of the same flush;
// deleting an entity twice counts once.
func (c *Commands) Flush(storage *Storage) FlushResult {
	c.mu.Lock()
	spawns, deletes, defers := c.spawns, c.deletes, c.defers
	c.spawns, c.deletes, c.defers = nil, nil, nil
	c.mu.Unlock()

	var res FlushResult
	for _, id := range deletes {
		if storage.Delete(id) {
			res.Deleted++
		}
	}
	for _, components := range spawns {
		storage.Spawn(components...)
		res.Spawned++
	}
	for _, fn := range defers {
		fn()
	}
	return res
}
