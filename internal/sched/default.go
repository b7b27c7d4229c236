package sched

// std is the process-wide scheduler behind the package-level functions.
var std = New()

// Default returns the process-wide scheduler.
func Default() *Scheduler { return std }

// Init initializes the process-wide scheduler.
func Init(quantum, channels int) error { return std.Init(quantum, channels) }

// Spawn spawns a task on the process-wide scheduler.
func Spawn(fn Handler, priority int) (TaskID, error) { return std.Spawn(fn, priority) }

// Yield yields the running task of the process-wide scheduler.
func Yield() { std.Yield() }

// Wait blocks the running task of the process-wide scheduler on channel.
func Wait(channel int) error { return std.Wait(channel) }

// Signal wakes the tasks of the process-wide scheduler blocked on channel.
func Signal(channel int) (int, error) { return std.Signal(channel) }

// Shutdown shuts the process-wide scheduler down.
func Shutdown() { std.Shutdown() }
