package core

// ModuleID uniquely identifies a module, namespaced with dots
// (e.g. "gateway.http", "storage.sqlite").
type ModuleID string

// ModuleInfo describes a registered module.
type ModuleInfo struct {
	// ID is the unique module identifier.
	ID ModuleID

	// New returns a fresh, unconfigured instance of the module.
	New func() Module
}

// Module is the minimal interface every module implements.
// Optional behavior is expressed through the lifecycle interfaces
// (Configurable, Provisioner, Validator, Starter, Stopper, Reloader).
type Module interface {
	ModuleInfo() ModuleInfo
}
