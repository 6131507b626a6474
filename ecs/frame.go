package ecs

// System is one pass of the per-tick pipeline. Query and Singleton fields on the
// system struct are bound by the Scheduler at registration; Query fields are
// refreshed before every Execute call.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame carries the inputs of a single tick.
type UpdateFrame struct {
	// DeltaTime is the elapsed time since the previous tick, in seconds.
	DeltaTime float64
	// Tick counts Once calls on the owning Scheduler, starting at 1.
	Tick     uint64
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt float64, tick uint64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Tick:      tick,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
