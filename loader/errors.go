package loader

import "fmt"

// DuplicateError is returned when a module name is registered twice.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("loader: module %q already registered", e.Name)
}

// CycleError is returned when Initialize discovers a dependency cycle. Path
// lists the module names in the cycle, in traversal order.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("loader: dependency cycle detected: %v", e.Path)
}

// MissingDependencyError is returned when a module declares a dependency on
// a name that was never registered.
type MissingDependencyError struct {
	Module     string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("loader: module %q depends on unregistered module %q", e.Module, e.Dependency)
}

// InitError wraps a module's Init failure with its name, leaving the module
// in StateError.
type InitError struct {
	Name string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("loader: module %q failed to initialize: %v", e.Name, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// InitTimeoutError is returned when a module's Init does not complete within
// its configured timeout.
type InitTimeoutError struct {
	Name string
}

func (e *InitTimeoutError) Error() string {
	return fmt.Sprintf("loader: module %q init timed out", e.Name)
}

// NotFoundError is returned when an operation names a module that was
// never registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("loader: module %q not registered", e.Name)
}

// ShutdownError wraps a module's Shutdown failure with its name.
type ShutdownError struct {
	Name string
	Err  error
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("loader: module %q failed to shut down: %v", e.Name, e.Err)
}

func (e *ShutdownError) Unwrap() error { return e.Err }
